package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"artframe-storefront/models"
	"artframe-storefront/service"
)

// Submitter hands a session's order line to the cart
type Submitter interface {
	Submit(ctx context.Context, sessionID string, mode models.CartMode) (*models.CartReceipt, error)
}

// ProofGenerator prints a session's proof sheet
type ProofGenerator interface {
	GeneratePDF(ctx context.Context, sessionID string) ([]byte, error)
}

// ConfiguratorController handles HTTP requests for configurator sessions
type ConfiguratorController struct {
	configurator *service.ConfiguratorService
	assets       *service.AssetService
	cart         Submitter
	proofs       ProofGenerator
}

// NewConfiguratorController creates a new ConfiguratorController
func NewConfiguratorController(
	configurator *service.ConfiguratorService,
	assets *service.AssetService,
	cart Submitter,
	proofs ProofGenerator,
) *ConfiguratorController {
	return &ConfiguratorController{
		configurator: configurator,
		assets:       assets,
		cart:         cart,
		proofs:       proofs,
	}
}

// CreateSessionRequest opens a session for a product
type CreateSessionRequest struct {
	Slug              string `json:"slug"`
	PreviousSessionID string `json:"previousSessionId,omitempty"`
}

// ThumbnailRequest picks a thumbnail, or clears the pick
type ThumbnailRequest struct {
	service.ThumbnailPick
	Clear bool `json:"clear,omitempty"`
}

// CreateSession handles POST /configurator/sessions
// Example request:
// POST /configurator/sessions
// {
//   "slug": "mountain-dawn"
// }
// Example response:
// {
//   "sessionId": "7d6f...",
//   "family": "standard_print",
//   "available": false,
//   "violations": [{"code": "size_required", "message": "Please select a size"}],
//   ...
// }
func (c *ConfiguratorController) CreateSession(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateSession: Received %s request to %s", r.Method, r.URL.Path)

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "CreateSession", fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Slug) == "" {
		badRequest(w, "CreateSession", "slug is required")
		return
	}

	view, err := c.configurator.Open(r.Context(), req.Slug, req.PreviousSessionID)
	if err != nil {
		writeError(w, "CreateSession", err)
		return
	}

	log.Printf("✅ CreateSession: Session %s for %s", view.SessionID, view.Product.Slug)
	writeJSON(w, "CreateSession", http.StatusCreated, view)
}

// GetSession handles GET /configurator/sessions/{id}
func (c *ConfiguratorController) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log.Printf("📥 GetSession: id=%s", id)

	view, err := c.configurator.Get(id)
	if err != nil {
		writeError(w, "GetSession", err)
		return
	}
	writeJSON(w, "GetSession", http.StatusOK, view)
}

// UpdateSession handles PATCH /configurator/sessions/{id}
// Example request:
// PATCH /configurator/sessions/7d6f...
// {
//   "finish": "Frame",
//   "size": "24x36",
//   "color": "Black"
// }
func (c *ConfiguratorController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log.Printf("📥 UpdateSession: id=%s", id)

	var edit service.Edit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		badRequest(w, "UpdateSession", fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	view, err := c.configurator.Apply(id, edit)
	if err != nil {
		writeError(w, "UpdateSession", err)
		return
	}
	writeJSON(w, "UpdateSession", http.StatusOK, view)
}

// DeleteSession handles DELETE /configurator/sessions/{id}
func (c *ConfiguratorController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log.Printf("📥 DeleteSession: id=%s", id)

	if err := c.configurator.Discard(id); err != nil {
		writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PickThumbnail handles POST /configurator/sessions/{id}/thumbnail
// Body: {"index": 2}, {"image": "https://..."} or {"clear": true}
func (c *ConfiguratorController) PickThumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log.Printf("📥 PickThumbnail: id=%s", id)

	var req ThumbnailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "PickThumbnail", fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	var view *service.View
	var err error
	if req.Clear {
		view, err = c.configurator.ClearThumbnail(id)
	} else {
		view, err = c.configurator.PickThumbnail(id, req.ThumbnailPick)
	}
	if err != nil {
		writeError(w, "PickThumbnail", err)
		return
	}
	writeJSON(w, "PickThumbnail", http.StatusOK, view)
}

// UploadAsset handles POST /configurator/sessions/{id}/asset (multipart, field "file")
// The part's Content-Type is checked before its content is read
func (c *ConfiguratorController) UploadAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log.Printf("📥 UploadAsset: id=%s", id)

	if _, err := c.configurator.Get(id); err != nil {
		writeError(w, "UploadAsset", err)
		return
	}

	// Headroom for multipart framing; the asset service enforces the file limit
	r.Body = http.MaxBytesReader(w, r.Body, c.assets.MaxBytes()+1<<20)

	mr, err := r.MultipartReader()
	if err != nil {
		badRequest(w, "UploadAsset", fmt.Sprintf("Expected multipart/form-data: %v", err))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			badRequest(w, "UploadAsset", "file field is required")
			return
		}
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, "UploadAsset", service.ErrAssetTooLarge)
				return
			}
			badRequest(w, "UploadAsset", fmt.Sprintf("Invalid multipart body: %v", err))
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		asset, err := c.assets.Encode(r.Context(), part.FileName(), part.Header.Get("Content-Type"), part)
		part.Close()
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				err = service.ErrAssetTooLarge
			}
			writeError(w, "UploadAsset", err)
			return
		}

		view, err := c.configurator.AttachAsset(id, *asset)
		if err != nil {
			writeError(w, "UploadAsset", err)
			return
		}
		log.Printf("✅ UploadAsset: Attached %s to session %s", asset.FileName, id)
		writeJSON(w, "UploadAsset", http.StatusOK, view)
		return
	}
}

// AddToCart handles POST /configurator/sessions/{id}/cart
func (c *ConfiguratorController) AddToCart(w http.ResponseWriter, r *http.Request) {
	c.submit(w, r, "AddToCart", models.CartModeCart)
}

// BuyNow handles POST /configurator/sessions/{id}/buy-now
func (c *ConfiguratorController) BuyNow(w http.ResponseWriter, r *http.Request) {
	c.submit(w, r, "BuyNow", models.CartModeBuyNow)
}

func (c *ConfiguratorController) submit(w http.ResponseWriter, r *http.Request, op string, mode models.CartMode) {
	id := chi.URLParam(r, "id")
	log.Printf("📥 %s: id=%s", op, id)

	receipt, err := c.cart.Submit(r.Context(), id, mode)
	if err != nil {
		writeError(w, op, err)
		return
	}

	log.Printf("✅ %s: Line %s in cart %d", op, receipt.LineID, receipt.CartID)
	writeJSON(w, op, http.StatusCreated, receipt)
}

// GetProof handles GET /configurator/sessions/{id}/proof.pdf
func (c *ConfiguratorController) GetProof(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log.Printf("📥 GetProof: id=%s", id)

	pdf, err := c.proofs.GeneratePDF(r.Context(), id)
	if err != nil {
		writeError(w, "GetProof", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="proof-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("❌ GetProof: Error writing PDF: %v", err)
	}
}
