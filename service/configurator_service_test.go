package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artframe-storefront/models"
	"artframe-storefront/presentation"
	"artframe-storefront/repository"
	"artframe-storefront/selection"
)

func TestOpen(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())

	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, models.FamilyStandardPrint, view.Family)
	assert.Equal(t, "default", view.FamilyRule)
	assert.Equal(t, models.FinishRolled, view.Selection.Finish)
	assert.False(t, view.Available)
	assert.False(t, view.CanCheckout)
	assert.Equal(t, "INR", view.Currency)
	assert.Equal(t, presentation.Resolved{Image: "dawn.jpg", Source: presentation.SourceBase}, view.Image)
	assert.Equal(t, []models.Finish{models.FinishRolled, models.FinishCanvas, models.FinishFrame}, view.Finishes)
	assert.Len(t, view.Options, 42)
	require.Len(t, view.Violations, 1)
	assert.Equal(t, selection.CodeSizeRequired, view.Violations[0].Code)
	assert.Equal(t, 1, svc.SessionCount())
}

func TestOpenErrors(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	_, err := svc.Open(context.Background(), "missing", "")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	down := &fakeCatalog{err: errors.New("dial tcp: connection refused")}
	svc, _ = newTestConfigurator(t, down)
	_, err = svc.Open(context.Background(), "mountain-dawn", "")

	var collab *CollaboratorError
	require.True(t, errors.As(err, &collab))
	assert.True(t, collab.Retryable)
	assert.Equal(t, "catalog", collab.Collaborator)
	assert.Equal(t, 0, svc.SessionCount())
}

func TestOpenReplacesPreviousSession(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	first, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)

	second, err := svc.Open(context.Background(), "lotus-glow", first.SessionID)
	require.NoError(t, err)

	_, err = svc.Get(first.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Get(second.SessionID)
	assert.NoError(t, err)
}

func TestApplyStandardPrint(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)
	id := view.SessionID

	view, err = svc.Apply(id, Edit{Size: strPtr("8 x 12"), Finish: strPtr("canvas")})
	require.NoError(t, err)
	assert.True(t, view.Available)
	assert.Equal(t, models.Price(800), view.Price)
	assert.Equal(t, "₹800", view.PriceLabel)
	assert.Equal(t, "dawn-canvas.jpg", view.Image.Image)
	assert.True(t, view.CanCheckout)

	view, err = svc.Apply(id, Edit{Finish: strPtr("Frame")})
	require.NoError(t, err)
	assert.Equal(t, models.Price(999), view.Price)
	assert.False(t, view.CanCheckout)
	require.Len(t, view.Violations, 1)
	assert.Equal(t, "Please select a frame color", view.Violations[0].Message)

	view, err = svc.Apply(id, Edit{Color: strPtr("black"), Quantity: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "dawn-black.jpg", view.Image.Image)
	assert.Equal(t, models.Price(1998), view.LineTotal)
	assert.True(t, view.CanCheckout)

	view, err = svc.Apply(id, Edit{Size: strPtr("48x66")})
	require.NoError(t, err)
	assert.False(t, view.Available)
	assert.False(t, view.CanCheckout)
	assert.Empty(t, view.PriceLabel)

	view, err = svc.Apply(id, Edit{Custom: &CustomEdit{Enabled: true, Width: 20, Height: 30}})
	require.NoError(t, err)
	assert.Equal(t, models.Price(2690), view.Price)

	view, err = svc.Apply(id, Edit{Tier: strPtr("two set"), Custom: &CustomEdit{}, Size: strPtr("8X12")})
	require.NoError(t, err)
	assert.Equal(t, models.Price(1799), view.Price)
}

func TestApplyIsAtomic(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)
	before := view.Selection

	_, err = svc.Apply(view.SessionID, Edit{Finish: strPtr("Frame"), Size: strPtr("   ")})
	assert.ErrorIs(t, err, ErrInvalidEdit)
	assert.ErrorIs(t, err, selection.ErrInvalidSize)

	after, err := svc.Get(view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, before, after.Selection)

	_, err = svc.Apply(view.SessionID, Edit{Finish: strPtr("glossy")})
	assert.ErrorIs(t, err, ErrInvalidEdit)
	_, err = svc.Apply(view.SessionID, Edit{Variant: strPtr("warm light")})
	assert.ErrorIs(t, err, selection.ErrAxisNotOffered)
	_, err = svc.Apply("nope", Edit{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestApplyNeon(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "custom-neon", "")
	require.NoError(t, err)

	assert.Equal(t, models.FamilyNeonSign, view.Family)
	assert.Equal(t, "custom-neon-identity", view.FamilyRule)
	assert.Equal(t, "18X6", view.Selection.Size)
	assert.Equal(t, models.Price(1404), view.Price)
	assert.Equal(t, "Pink", view.Selection.Color)
	assert.Equal(t, "neon-pink.jpg", view.Image.Image)
	assert.True(t, view.CanCheckout)
	assert.Len(t, view.Options, 5)

	view, err = svc.Apply(view.SessionID, Edit{Size: strPtr("24x8"), Color: strPtr("warm white")})
	require.NoError(t, err)
	assert.Equal(t, models.Price(2496), view.Price)
	assert.Equal(t, "neon-ww.jpg", view.Image.Image)

	view, err = svc.Apply(view.SessionID, Edit{LightMode: strPtr("rgb")})
	require.NoError(t, err)
	assert.Equal(t, models.Price(24*8*16), view.Price)

	view, err = svc.Apply(view.SessionID, Edit{Custom: &CustomEdit{Enabled: true, Width: 40, Height: 10}})
	require.NoError(t, err)
	assert.Equal(t, models.Price(6400), view.Price)
}

func TestApplyAcrylic(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "lotus-glow", "")
	require.NoError(t, err)
	assert.Equal(t, models.FamilyAcrylicPanel, view.Family)
	assert.Equal(t, "lotus-off.jpg", view.Image.Image)

	view, err = svc.Apply(view.SessionID, Edit{Size: strPtr("12x12"), Variant: strPtr("Warm Light")})
	require.NoError(t, err)
	assert.Equal(t, models.Price(2399), view.Price)
	assert.Equal(t, "lotus-warm.jpg", view.Image.Image)

	_, err = svc.Apply(view.SessionID, Edit{Custom: &CustomEdit{Enabled: true, Width: 10, Height: 10}})
	assert.ErrorIs(t, err, selection.ErrCustomNotOffered)
}

func TestThumbnailPickAndInvalidation(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)
	id := view.SessionID

	_, err = svc.PickThumbnail(id, ThumbnailPick{Image: "unknown.jpg"})
	assert.ErrorIs(t, err, ErrThumbnailNotFound)
	_, err = svc.PickThumbnail(id, ThumbnailPick{Index: intPtr(99)})
	assert.ErrorIs(t, err, ErrThumbnailNotFound)

	view, err = svc.PickThumbnail(id, ThumbnailPick{Image: "dawn-room.jpg"})
	require.NoError(t, err)
	assert.Equal(t, presentation.Resolved{Image: "dawn-room.jpg", Source: presentation.SourceOverride}, view.Image)

	view, err = svc.Apply(id, Edit{Size: strPtr("8x12")})
	require.NoError(t, err)
	assert.Equal(t, "dawn-room.jpg", view.Image.Image, "size change keeps the pick")

	view, err = svc.Apply(id, Edit{Finish: strPtr("Canvas")})
	require.NoError(t, err)
	assert.Equal(t, "dawn-canvas.jpg", view.Image.Image, "finish change clears the pick")

	view, err = svc.PickThumbnail(id, ThumbnailPick{Index: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, "dawn.jpg", view.Image.Image)

	view, err = svc.ClearThumbnail(id)
	require.NoError(t, err)
	assert.Equal(t, "dawn-canvas.jpg", view.Image.Image)
}

func TestSessionExpiry(t *testing.T) {
	svc, clk := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)
	assert.Equal(t, clk.now.Add(time.Hour), view.ExpiresAt)

	clk.now = clk.now.Add(45 * time.Minute)
	_, err = svc.Get(view.SessionID)
	require.NoError(t, err, "access refreshes the session")

	clk.now = clk.now.Add(45 * time.Minute)
	_, err = svc.Get(view.SessionID)
	require.NoError(t, err)

	stale, err := svc.Open(context.Background(), "lotus-glow", "")
	require.NoError(t, err)

	clk.now = clk.now.Add(2 * time.Hour)
	_, err = svc.Open(context.Background(), "custom-neon", "")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.SessionCount(), "open sweeps idle sessions")

	_, err = svc.Get(stale.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiredSessionIsRemovedOnAccess(t *testing.T) {
	svc, clk := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)

	clk.now = clk.now.Add(2 * time.Hour)
	_, err = svc.Apply(view.SessionID, Edit{Size: strPtr("8x12")})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, svc.SessionCount())
}

func TestConcurrentAccessToOneSession(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)
	id := view.SessionID

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Get(id)
			assert.NoError(t, err)
		}()
		go func(qty int) {
			defer wg.Done()
			_, err := svc.Apply(id, Edit{Quantity: intPtr(qty)})
			assert.NoError(t, err)
		}(i + 1)
	}
	wg.Wait()

	view, err = svc.Get(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, view.Selection.Quantity, 1)
	assert.LessOrEqual(t, view.Selection.Quantity, 8)
}

func TestApplyRejectsOversizeEdits(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)
	id := view.SessionID

	_, err = svc.Apply(id, Edit{Custom: &CustomEdit{Enabled: true, Width: 1e10, Height: 1e10}})
	assert.ErrorIs(t, err, ErrInvalidEdit)
	assert.ErrorIs(t, err, selection.ErrInvalidSize)

	_, err = svc.Apply(id, Edit{Size: strPtr("8x12"), Quantity: intPtr(1 << 60)})
	assert.ErrorIs(t, err, selection.ErrInvalidQuantity)

	view, err = svc.Apply(id, Edit{Size: strPtr("8x12"), Finish: strPtr("canvas"), Quantity: intPtr(selection.MaxQuantity)})
	require.NoError(t, err)
	assert.Equal(t, models.Price(800*selection.MaxQuantity), view.LineTotal)
	assert.True(t, view.CanCheckout)
}

func TestDiscard(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)

	require.NoError(t, svc.Discard(view.SessionID))
	assert.ErrorIs(t, svc.Discard(view.SessionID), ErrSessionNotFound)
	_, err = svc.Get(view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestBuildLine(t *testing.T) {
	svc, clk := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "custom-canvas", "")
	require.NoError(t, err)
	id := view.SessionID
	assert.Equal(t, models.FamilyCustomCanvas, view.Family)

	_, err = svc.BuildLine(id)
	assert.ErrorIs(t, err, selection.ErrSizeRequired)

	_, err = svc.Apply(id, Edit{Size: strPtr("8x12")})
	require.NoError(t, err)
	_, err = svc.BuildLine(id)
	var verr *selection.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Please upload an image", verr.Message)

	_, err = svc.AttachAsset(id, models.AssetRef{FileName: "me.png", MediaType: "image/png", DataURI: "data:image/png;base64,AAAA"})
	require.NoError(t, err)
	_, err = svc.BuildLine(id)
	assert.ErrorIs(t, err, selection.ErrCombinationUnavailable, "8X12 is not a declared size")

	_, err = svc.Apply(id, Edit{Size: strPtr("12X18"), Quantity: intPtr(3), Instructions: strPtr("  warm tones  ")})
	require.NoError(t, err)
	line, err := svc.BuildLine(id)
	require.NoError(t, err)

	assert.NotEmpty(t, line.LineID)
	assert.Equal(t, id, line.SessionID)
	assert.Equal(t, int64(4), line.ProductID)
	assert.Equal(t, "12X18", line.Size)
	assert.Equal(t, models.FinishCanvas, line.Finish)
	assert.Equal(t, models.Price(1150), line.UnitPrice)
	assert.Equal(t, models.Price(3450), line.LineTotal)
	assert.Equal(t, "canvas.jpg", line.Image)
	assert.Equal(t, clk.now, line.CreatedAt)
	require.NotNil(t, line.Design)
	assert.Equal(t, "me.png", line.Design.AssetFileName)
	assert.Equal(t, "warm tones", line.Design.Instructions)

	again, err := svc.BuildLine(id)
	require.NoError(t, err)
	assert.NotEqual(t, line.LineID, again.LineID)
}

func TestBuildLineHasNoDesignForPrints(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)
	_, err = svc.Apply(view.SessionID, Edit{Size: strPtr("8x12")})
	require.NoError(t, err)

	line, err := svc.BuildLine(view.SessionID)
	require.NoError(t, err)
	assert.Nil(t, line.Design)
	assert.Equal(t, models.Price(499), line.UnitPrice)
}
