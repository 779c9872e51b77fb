package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"artframe-storefront/repository"
	"artframe-storefront/selection"
	"artframe-storefront/service"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, op string, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ %s: Error encoding response: %v", op, err)
	}
}

// writeError maps service errors to HTTP statuses
func writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	var verr *selection.ValidationError
	var collab *service.CollaboratorError

	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		resp.Code = verr.Code
		resp.Error = verr.Message
	case errors.Is(err, service.ErrInvalidEdit):
		status = http.StatusBadRequest
		resp.Code = "invalid_edit"
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
		resp.Code = "session_not_found"
	case errors.Is(err, repository.ErrProductNotFound):
		status = http.StatusNotFound
		resp.Code = "product_not_found"
	case errors.Is(err, service.ErrThumbnailNotFound):
		status = http.StatusNotFound
		resp.Code = "thumbnail_not_found"
	case errors.Is(err, service.ErrUnsupportedAsset):
		status = http.StatusUnsupportedMediaType
		resp.Code = "unsupported_asset"
	case errors.Is(err, service.ErrAssetTooLarge):
		status = http.StatusRequestEntityTooLarge
		resp.Code = "asset_too_large"
	case errors.As(err, &collab):
		status = http.StatusBadGateway
		if collab.Retryable {
			status = http.StatusServiceUnavailable
		}
		resp.Code = collab.Collaborator + "_unavailable"
		resp.Retryable = collab.Retryable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s: %v", op, err)
	} else {
		log.Printf("⚠️  %s: %v", op, err)
	}
	writeJSON(w, op, status, resp)
}

func badRequest(w http.ResponseWriter, op, msg string) {
	log.Printf("❌ %s: %s", op, msg)
	writeJSON(w, op, http.StatusBadRequest, ErrorResponse{Error: msg, Code: "bad_request"})
}
