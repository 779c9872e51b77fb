package service

import (
	"context"
	"errors"
	"log"
	"time"

	"artframe-storefront/models"
	"artframe-storefront/repository"
)

const (
	defaultCartAttempts = 3
	defaultCartBackoff  = 300 * time.Millisecond
)

// LineBuilder snapshots a validated session as an order line
type LineBuilder interface {
	BuildLine(sessionID string) (*models.OrderLine, error)
}

// CartService hands configured order lines to the cart
type CartService struct {
	lines       LineBuilder
	cart        repository.CartRepositoryInterface
	archive     ArtworkArchiveInterface
	maxAttempts int
	backoff     time.Duration
}

// NewCartService creates a new CartService. archive may be nil
func NewCartService(lines LineBuilder, cart repository.CartRepositoryInterface, archive ArtworkArchiveInterface, maxAttempts int) *CartService {
	if maxAttempts < 1 {
		maxAttempts = defaultCartAttempts
	}
	return &CartService{
		lines:       lines,
		cart:        cart,
		archive:     archive,
		maxAttempts: maxAttempts,
		backoff:     defaultCartBackoff,
	}
}

// Submit validates the session and adds its order line to the cart (or the
// buy-now cart). Validation failures come back as *selection.ValidationError;
// cart failures as *CollaboratorError. Neither changes the session
func (s *CartService) Submit(ctx context.Context, sessionID string, mode models.CartMode) (*models.CartReceipt, error) {
	log.Printf("🛒 Submit: session=%s mode=%s", sessionID, mode)

	line, err := s.lines.BuildLine(sessionID)
	if err != nil {
		log.Printf("❌ Submit: Session %s not ready: %v", sessionID, err)
		return nil, err
	}

	s.archiveArtwork(ctx, line)

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		receipt, err := s.cart.AddLine(ctx, line, mode)
		if err == nil {
			receipt.Attempts = attempt
			log.Printf("✅ Submit: Line %s accepted into cart %d (attempt %d)", line.LineID, receipt.CartID, attempt)
			return receipt, nil
		}
		lastErr = err

		if errors.Is(err, repository.ErrInvalidLine) {
			log.Printf("❌ Submit: Cart rejected line %s: %v", line.LineID, err)
			return nil, &CollaboratorError{Collaborator: "cart", Attempts: attempt, Retryable: false, Err: err}
		}
		log.Printf("⚠️  Submit: Attempt %d/%d for line %s failed: %v", attempt, s.maxAttempts, line.LineID, err)

		if attempt == s.maxAttempts {
			break
		}
		if err := sleepContext(ctx, s.backoff*time.Duration(attempt)); err != nil {
			lastErr = err
			return nil, &CollaboratorError{Collaborator: "cart", Attempts: attempt, Retryable: true, Err: lastErr}
		}
	}

	return nil, &CollaboratorError{Collaborator: "cart", Attempts: s.maxAttempts, Retryable: true, Err: lastErr}
}

// archiveArtwork copies the uploaded artwork to the archive and records where.
// Archive failures do not block checkout; the line still carries the inline asset
func (s *CartService) archiveArtwork(ctx context.Context, line *models.OrderLine) {
	if s.archive == nil || line.Design == nil || line.Design.AssetDataURI == "" {
		return
	}
	location, err := s.archive.Archive(ctx, line)
	if err != nil {
		log.Printf("⚠️  Submit: Failed to archive artwork for line %s: %v", line.LineID, err)
		return
	}
	line.Design.ArchivedAsset = location
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
