package service

import (
	"context"

	"artframe-storefront/models"
)

// ArtworkArchiveInterface defines the contract for archiving custom artwork
// so production can reproduce an order line later
type ArtworkArchiveInterface interface {
	// Archive stores the line's uploaded asset and returns its location
	Archive(ctx context.Context, line *models.OrderLine) (string, error)
}
