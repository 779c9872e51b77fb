package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artframe-storefront/models"
	"artframe-storefront/repository"
	"artframe-storefront/selection"
)

// readyCanvasSession opens a custom canvas session that passes checkout validation
func readyCanvasSession(t *testing.T, svc *ConfiguratorService) string {
	t.Helper()
	view, err := svc.Open(context.Background(), "custom-canvas", "")
	require.NoError(t, err)
	_, err = svc.Apply(view.SessionID, Edit{Size: strPtr("12x18")})
	require.NoError(t, err)
	_, err = svc.AttachAsset(view.SessionID, models.AssetRef{FileName: "me.png", MediaType: "image/png", DataURI: "data:image/png;base64,AAAA"})
	require.NoError(t, err)
	return view.SessionID
}

func newTestCartService(svc *ConfiguratorService, cart *fakeCart, archive ArtworkArchiveInterface) *CartService {
	cs := NewCartService(svc, cart, archive, 3)
	cs.backoff = 0
	return cs
}

func TestSubmitSuccess(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	id := readyCanvasSession(t, svc)
	cart := &fakeCart{}
	archive := &fakeArchive{}

	receipt, err := newTestCartService(svc, cart, archive).Submit(context.Background(), id, models.CartModeBuyNow)
	require.NoError(t, err)

	assert.Equal(t, models.CartModeBuyNow, receipt.Mode)
	assert.Equal(t, int64(42), receipt.CartID)
	assert.Equal(t, 1, receipt.Attempts)
	require.Len(t, cart.lines, 1)
	assert.Equal(t, receipt.LineID, cart.lines[0].LineID)
	assert.Equal(t, "archive://"+receipt.LineID, cart.lines[0].Design.ArchivedAsset)
	assert.Equal(t, 1, archive.calls)
}

func TestSubmitRetriesTransientFailures(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	id := readyCanvasSession(t, svc)
	cart := &fakeCart{failures: 2}

	receipt, err := newTestCartService(svc, cart, nil).Submit(context.Background(), id, models.CartModeCart)
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.Attempts)
	assert.Equal(t, 3, cart.calls)
}

func TestSubmitExhaustsRetriesAndKeepsSession(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	id := readyCanvasSession(t, svc)
	before, err := svc.Get(id)
	require.NoError(t, err)

	cart := &fakeCart{failures: 10}
	_, err = newTestCartService(svc, cart, nil).Submit(context.Background(), id, models.CartModeCart)

	var collab *CollaboratorError
	require.True(t, errors.As(err, &collab))
	assert.True(t, collab.Retryable)
	assert.Equal(t, 3, collab.Attempts)
	assert.Equal(t, 3, cart.calls)
	assert.Contains(t, err.Error(), "after 3 attempts")

	after, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, before.Selection, after.Selection)
	assert.True(t, after.CanCheckout, "selection is still re-submittable")
}

func TestSubmitDoesNotRetryRejectedLines(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	id := readyCanvasSession(t, svc)
	cart := &fakeCart{failures: 1, err: fmt.Errorf("%w: quantity must be at least 1", repository.ErrInvalidLine)}

	_, err := newTestCartService(svc, cart, nil).Submit(context.Background(), id, models.CartModeCart)

	var collab *CollaboratorError
	require.True(t, errors.As(err, &collab))
	assert.False(t, collab.Retryable)
	assert.Equal(t, 1, cart.calls)
	assert.ErrorIs(t, err, repository.ErrInvalidLine)
}

func TestSubmitBlockedByValidation(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	view, err := svc.Open(context.Background(), "mountain-dawn", "")
	require.NoError(t, err)
	_, err = svc.Apply(view.SessionID, Edit{Size: strPtr("8x12"), Finish: strPtr("Frame")})
	require.NoError(t, err)

	cart := &fakeCart{}
	_, err = newTestCartService(svc, cart, nil).Submit(context.Background(), view.SessionID, models.CartModeCart)
	assert.ErrorIs(t, err, selection.ErrColorRequired)
	assert.Equal(t, 0, cart.calls)

	_, err = newTestCartService(svc, cart, nil).Submit(context.Background(), "gone", models.CartModeCart)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitArchiveFailureDoesNotBlock(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	id := readyCanvasSession(t, svc)
	cart := &fakeCart{}
	archive := &fakeArchive{err: errors.New("quota exceeded")}

	_, err := newTestCartService(svc, cart, archive).Submit(context.Background(), id, models.CartModeCart)
	require.NoError(t, err)
	require.Len(t, cart.lines, 1)
	assert.Empty(t, cart.lines[0].Design.ArchivedAsset)
	assert.NotEmpty(t, cart.lines[0].Design.AssetDataURI)
}

func TestSubmitStopsWhenContextEnds(t *testing.T) {
	svc, _ := newTestConfigurator(t, testCatalog())
	id := readyCanvasSession(t, svc)
	cart := &fakeCart{failures: 10}

	cs := NewCartService(svc, cart, nil, 5)
	cs.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := cs.Submit(ctx, id, models.CartModeCart)
	var collab *CollaboratorError
	require.True(t, errors.As(err, &collab))
	assert.Equal(t, 1, collab.Attempts)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewCartServiceDefaults(t *testing.T) {
	cs := NewCartService(nil, nil, nil, 0)
	assert.Equal(t, defaultCartAttempts, cs.maxAttempts)
}
