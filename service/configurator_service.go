package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"artframe-storefront/classifier"
	"artframe-storefront/models"
	"artframe-storefront/presentation"
	"artframe-storefront/pricing"
	"artframe-storefront/repository"
	"artframe-storefront/selection"
	"artframe-storefront/utils"
)

// ErrInvalidEdit wraps a rejected selection change; the session is untouched
var ErrInvalidEdit = errors.New("invalid edit")

// DefaultSessionTTL is how long an idle session is kept
const DefaultSessionTTL = 2 * time.Hour

// ProductSummary identifies the product a session is configuring
type ProductSummary struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

// View is everything a product page needs to render the current configuration
type View struct {
	SessionID   string                       `json:"sessionId"`
	Product     ProductSummary               `json:"product"`
	Family      models.ProductFamily         `json:"family"`
	FamilyRule  string                       `json:"familyRule"`
	Selection   selection.State              `json:"selection"`
	Available   bool                         `json:"available"`
	Price       models.Price                 `json:"price"`
	PriceLabel  string                       `json:"priceLabel,omitempty"`
	LineTotal   models.Price                 `json:"lineTotal"`
	Currency    string                       `json:"currency"`
	Image       presentation.Resolved        `json:"image"`
	Thumbnails  []models.Thumbnail           `json:"thumbnails"`
	Finishes    []models.Finish              `json:"finishes"`
	Options     []pricing.Option             `json:"options"`
	Violations  []*selection.ValidationError `json:"violations"`
	CanCheckout bool                         `json:"canCheckout"`
	ExpiresAt   time.Time                    `json:"expiresAt"`
}

// CustomEdit toggles custom-size mode
type CustomEdit struct {
	Enabled bool    `json:"enabled"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Edit is a batch of selection changes. Nil fields are left alone.
// Changes apply in field order and either all succeed or none do
type Edit struct {
	Finish       *string     `json:"finish,omitempty"`
	Tier         *string     `json:"tier,omitempty"`
	Size         *string     `json:"size,omitempty"`
	Custom       *CustomEdit `json:"custom,omitempty"`
	Color        *string     `json:"color,omitempty"`
	Variant      *string     `json:"variant,omitempty"`
	LightMode    *string     `json:"lightMode,omitempty"`
	Quantity     *int        `json:"quantity,omitempty"`
	Instructions *string     `json:"instructions,omitempty"`
}

// ThumbnailPick names a thumbnail by position or by image
type ThumbnailPick struct {
	Index *int   `json:"index,omitempty"`
	Image string `json:"image,omitempty"`
}

type session struct {
	mu        sync.Mutex
	id        string
	product   *models.ProductDescriptor
	class     classifier.Result
	state     selection.State
	touchedAt time.Time
}

// ConfiguratorService keeps one selection per viewing session and resolves
// price, image and validity after every change
type ConfiguratorService struct {
	catalog    repository.CatalogRepositoryInterface
	engine     *pricing.Engine
	classifier *classifier.Classifier
	guides     presentation.GuideSet
	ttl        time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewConfiguratorService creates a new ConfiguratorService
func NewConfiguratorService(
	catalog repository.CatalogRepositoryInterface,
	engine *pricing.Engine,
	cls *classifier.Classifier,
	guides presentation.GuideSet,
	ttl time.Duration,
) *ConfiguratorService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if cls == nil {
		cls = classifier.New(nil, nil)
	}
	return &ConfiguratorService{
		catalog:    catalog,
		engine:     engine,
		classifier: cls,
		guides:     guides,
		ttl:        ttl,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
}

// Open loads a product and starts a session seeded with its family defaults.
// A previous session of the same viewer is discarded
func (s *ConfiguratorService) Open(ctx context.Context, slug, previousSessionID string) (*View, error) {
	log.Printf("📥 Open: Starting session for slug=%s", slug)

	product, err := s.catalog.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		log.Printf("❌ Open: Catalog error for slug=%s: %v", slug, err)
		return nil, &CollaboratorError{Collaborator: "catalog", Attempts: 1, Retryable: true, Err: err}
	}

	class := s.classifier.Classify(classifier.Input{Identity: slug, Descriptor: product})
	log.Printf("🏷️  Open: Classified product id=%d as %s (rule=%s)", product.ID, class.Family, class.Rule)

	now := s.now()
	sess := &session{
		id:        uuid.NewString(),
		product:   product,
		class:     class,
		state:     selection.New(class.Family, product, s.engine.NeonPresets()),
		touchedAt: now,
	}

	s.mu.Lock()
	s.sweepLocked(now)
	if previousSessionID != "" {
		delete(s.sessions, previousSessionID)
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	log.Printf("✅ Open: Created session id=%s", sess.id)
	return s.view(sess), nil
}

// Get returns the current view of a session
func (s *ConfiguratorService) Get(id string) (*View, error) {
	return s.withSession(id, func(*session) error { return nil })
}

// Apply applies a batch of edits
func (s *ConfiguratorService) Apply(id string, edit Edit) (*View, error) {
	return s.withSession(id, func(sess *session) error {
		next := sess.state.Clone()
		if err := applyEdit(&next, edit, s.engine.NeonPresets()); err != nil {
			log.Printf("❌ Apply: Rejected edit for session id=%s: %v", id, err)
			return err
		}
		sess.state = next
		return nil
	})
}

func applyEdit(st *selection.State, edit Edit, neonPresets []string) error {
	if edit.Finish != nil {
		finish, ok := utils.ParseFinish(*edit.Finish)
		if !ok {
			return fmt.Errorf("%w: finish: unknown finish %q", ErrInvalidEdit, *edit.Finish)
		}
		if err := st.SelectFinish(finish); err != nil {
			return fmt.Errorf("%w: finish: %w", ErrInvalidEdit, err)
		}
	}
	if edit.Tier != nil {
		tier, ok := utils.ParseTier(*edit.Tier)
		if !ok {
			return fmt.Errorf("%w: tier: unknown tier %q", ErrInvalidEdit, *edit.Tier)
		}
		if err := st.SetTier(tier); err != nil {
			return fmt.Errorf("%w: tier: %w", ErrInvalidEdit, err)
		}
	}
	if edit.Size != nil {
		if err := st.SelectSize(*edit.Size); err != nil {
			return fmt.Errorf("%w: size: %w", ErrInvalidEdit, err)
		}
	}
	if edit.Custom != nil {
		if edit.Custom.Enabled {
			dims := models.Dimensions{Width: edit.Custom.Width, Height: edit.Custom.Height}
			if err := st.EnableCustom(dims); err != nil {
				return fmt.Errorf("%w: custom: %w", ErrInvalidEdit, err)
			}
		} else {
			st.DisableCustom(neonPresets)
		}
	}
	if edit.Color != nil {
		if err := st.SelectColor(*edit.Color); err != nil {
			return fmt.Errorf("%w: color: %w", ErrInvalidEdit, err)
		}
	}
	if edit.Variant != nil {
		if err := st.SelectVariant(*edit.Variant); err != nil {
			return fmt.Errorf("%w: variant: %w", ErrInvalidEdit, err)
		}
	}
	if edit.LightMode != nil {
		mode, ok := utils.ParseLightMode(*edit.LightMode)
		if !ok {
			return fmt.Errorf("%w: lightMode: unknown mode %q", ErrInvalidEdit, *edit.LightMode)
		}
		if err := st.SetLightMode(mode); err != nil {
			return fmt.Errorf("%w: lightMode: %w", ErrInvalidEdit, err)
		}
	}
	if edit.Quantity != nil {
		if err := st.SetQuantity(*edit.Quantity); err != nil {
			return fmt.Errorf("%w: quantity: %w", ErrInvalidEdit, err)
		}
	}
	if edit.Instructions != nil {
		st.SetInstructions(*edit.Instructions)
	}
	return nil
}

// PickThumbnail makes one of the session's current thumbnails the displayed image
func (s *ConfiguratorService) PickThumbnail(id string, pick ThumbnailPick) (*View, error) {
	return s.withSession(id, func(sess *session) error {
		thumbs := presentation.Thumbnails(sess.class.Family, sess.product, s.guides)

		var chosen *models.Thumbnail
		switch {
		case pick.Index != nil:
			if i := *pick.Index; i >= 0 && i < len(thumbs) {
				chosen = &thumbs[i]
			}
		case pick.Image != "":
			for i := range thumbs {
				if thumbs[i].Image == pick.Image {
					chosen = &thumbs[i]
					break
				}
			}
		}
		if chosen == nil {
			return ErrThumbnailNotFound
		}
		return sess.state.PickThumbnail(*chosen)
	})
}

// ClearThumbnail returns the session to computed image resolution
func (s *ConfiguratorService) ClearThumbnail(id string) (*View, error) {
	return s.withSession(id, func(sess *session) error {
		sess.state.ClearThumbnail()
		return nil
	})
}

// AttachAsset records an encoded upload on the session
func (s *ConfiguratorService) AttachAsset(id string, asset models.AssetRef) (*View, error) {
	return s.withSession(id, func(sess *session) error {
		sess.state.AttachAsset(asset)
		return nil
	})
}

// Discard ends a session
func (s *ConfiguratorService) Discard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[id]; !exists {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	log.Printf("🗑️  Discard: Removed session id=%s", id)
	return nil
}

// BuildLine validates the session for checkout and snapshots it as an order line.
// The session itself is not changed
func (s *ConfiguratorService) BuildLine(id string) (*models.OrderLine, error) {
	var line *models.OrderLine
	_, err := s.withSession(id, func(sess *session) error {
		price, ok := s.engine.Price(pricingRequest(sess.state, sess.product))
		total, fits := price.Times(sess.state.Quantity)
		if err := sess.state.ValidateForCheckout(ok && fits); err != nil {
			return err
		}
		line = s.orderLine(sess, price, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *ConfiguratorService) orderLine(sess *session, price, total models.Price) *models.OrderLine {
	st := sess.state.Clone()
	line := &models.OrderLine{
		LineID:      uuid.NewString(),
		SessionID:   sess.id,
		ProductID:   sess.product.ID,
		ProductSlug: sess.product.Slug,
		ProductName: sess.product.Name,
		Family:      st.Family,
		Finish:      st.Finish,
		Size:        st.Size,
		Custom:      st.Custom,
		Dimensions:  st.Dimensions,
		Color:       st.Color,
		Variant:     st.Variant,
		LightMode:   st.LightMode,
		Tier:        st.Tier,
		Quantity:    st.Quantity,
		UnitPrice:   price,
		LineTotal:   total,
		Image:       presentation.Resolve(st, sess.product).Image,
		CreatedAt:   s.now().UTC(),
	}

	if st.Family == models.FamilyCustomCanvas || st.Family == models.FamilyNeonSign {
		design := &models.DesignParameters{
			Instructions: st.Instructions,
			Dimensions:   st.Dimensions,
			Color:        st.Color,
			LightMode:    st.LightMode,
		}
		if st.Asset != nil {
			design.AssetFileName = st.Asset.FileName
			design.AssetMediaType = st.Asset.MediaType
			design.AssetDataURI = st.Asset.DataURI
		}
		line.Design = design
	}
	return line
}

// withSession runs fn under the session lock and returns the resulting view.
// Expired sessions are treated as missing. touchedAt is only read or written
// under sess.mu
func (s *ConfiguratorService) withSession(id string, fn func(*session) error) (*View, error) {
	now := s.now()

	s.mu.Lock()
	sess, exists := s.sessions[id]
	s.mu.Unlock()
	if !exists {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	if now.Sub(sess.touchedAt) > s.ttl {
		sess.mu.Unlock()
		s.mu.Lock()
		if s.sessions[id] == sess {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	defer sess.mu.Unlock()

	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.touchedAt = now
	return s.view(sess), nil
}

// sweepLocked drops idle sessions; s.mu must be held
func (s *ConfiguratorService) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if sess.mu.TryLock() {
			expired := now.Sub(sess.touchedAt) > s.ttl
			sess.mu.Unlock()
			if expired {
				delete(s.sessions, id)
				log.Printf("⌛ sweep: Expired session id=%s", id)
			}
		}
	}
}

// SessionCount returns the number of live sessions
func (s *ConfiguratorService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// view resolves price, image and validity for the session; sess.mu must be held
func (s *ConfiguratorService) view(sess *session) *View {
	st := sess.state.Clone()
	req := pricingRequest(st, sess.product)
	price, ok := s.engine.Price(req)

	v := &View{
		SessionID: sess.id,
		Product: ProductSummary{
			ID:     sess.product.ID,
			Slug:   sess.product.Slug,
			Name:   sess.product.Name,
			Layout: sess.product.Layout,
		},
		Family:     sess.class.Family,
		FamilyRule: sess.class.Rule,
		Selection:  st,
		Available:  ok,
		Currency:   s.engine.Currency(),
		Image:      presentation.Resolve(st, sess.product),
		Thumbnails: presentation.Thumbnails(sess.class.Family, sess.product, s.guides),
		Finishes:   selection.AllowedFinishes(sess.class.Family),
		Options:    s.engine.Options(req),
		Violations: st.Violations(),
		ExpiresAt:  sess.touchedAt.Add(s.ttl),
	}
	if ok {
		total, fits := price.Times(st.Quantity)
		ok = fits
		v.Available = fits
		v.Price = price
		v.PriceLabel = utils.FormatPrice(price)
		v.LineTotal = total
	}
	v.CanCheckout = ok && len(v.Violations) == 0
	return v
}

func pricingRequest(st selection.State, product *models.ProductDescriptor) pricing.Request {
	return pricing.Request{
		Family:        st.Family,
		Size:          st.Size,
		Custom:        st.Custom,
		Dimensions:    st.Dimensions,
		Finish:        st.Finish,
		Tier:          st.Tier,
		Variant:       st.Variant,
		LightMode:     st.LightMode,
		Layout:        product.Layout,
		DeclaredSizes: product.Sizes,
	}
}
