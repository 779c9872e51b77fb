package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"artframe-storefront/classifier"
	"artframe-storefront/models"
	"artframe-storefront/presentation"
	"artframe-storefront/pricing"
	"artframe-storefront/repository"
)

type fakeCatalog struct {
	products map[string]*models.ProductDescriptor
	err      error
}

func (f *fakeCatalog) GetBySlug(_ context.Context, slug string) (*models.ProductDescriptor, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, exists := f.products[slug]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repository.ErrProductNotFound, slug)
	}
	return p, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*models.ProductDescriptor, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

type fakeCart struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
	lines    []*models.OrderLine
}

func (f *fakeCart) AddLine(_ context.Context, line *models.OrderLine, mode models.CartMode) (*models.CartReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errors.New("connection reset by peer")
	}
	f.lines = append(f.lines, line)
	return &models.CartReceipt{LineID: line.LineID, Mode: mode, CartID: 42}, nil
}

type fakeArchive struct {
	err   error
	calls int
}

func (f *fakeArchive) Archive(_ context.Context, line *models.OrderLine) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "archive://" + line.LineID, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*models.ProductDescriptor{
		"mountain-dawn": {
			ID:               1,
			Slug:             "mountain-dawn",
			Name:             "Mountain Dawn",
			Layout:           "portrait",
			Material:         "paper",
			BaseImage:        "dawn.jpg",
			FinishImages:     map[string]string{"Canvas": "dawn-canvas.jpg"},
			FrameColorImages: map[string]string{"White": "dawn-white.jpg", "Black": "dawn-black.jpg"},
			Gallery:          []string{"dawn-room.jpg"},
		},
		"custom-neon": {
			ID:         2,
			Slug:       "custom-neon",
			Name:       "Custom Neon Sign",
			BaseImage:  "neon.jpg",
			NeonImages: map[string]string{"Warm White": "neon-ww.jpg", "Pink": "neon-pink.jpg"},
		},
		"lotus-glow": {
			ID:            3,
			Slug:          "lotus-glow",
			Name:          "Lotus Glow",
			Layout:        "Acrylic Square",
			BaseImage:     "lotus.jpg",
			AcrylicImages: map[string]string{"no light": "lotus-off.jpg", "warm light": "lotus-warm.jpg"},
		},
		"custom-canvas": {
			ID:        4,
			Slug:      "custom-canvas",
			Name:      "Your Photo on Canvas",
			BaseImage: "canvas.jpg",
			Sizes:     []string{"12x18", "24x36"},
		},
	}}
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestConfigurator(t *testing.T, catalog repository.CatalogRepositoryInterface) (*ConfiguratorService, *clock) {
	t.Helper()
	engine, err := pricing.NewEngine("")
	require.NoError(t, err)

	c := &clock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc := NewConfiguratorService(catalog, engine, classifier.New(nil, nil), presentation.NewGuideSet(""), time.Hour)
	svc.now = c.Now
	return svc, c
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
