package repository

import (
	"context"
	"errors"

	"artframe-storefront/models"
)

var (
	// ErrProductNotFound is returned when no active product matches
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidLine is returned for order lines the cart refuses outright; retrying cannot help
	ErrInvalidLine = errors.New("invalid order line")
)

// CatalogRepositoryInterface defines the contract for loading product descriptors
type CatalogRepositoryInterface interface {
	GetBySlug(ctx context.Context, slug string) (*models.ProductDescriptor, error)
	GetByID(ctx context.Context, id int64) (*models.ProductDescriptor, error)
}

// CartRepositoryInterface defines the contract for handing order lines to the cart
type CartRepositoryInterface interface {
	AddLine(ctx context.Context, line *models.OrderLine, mode models.CartMode) (*models.CartReceipt, error)
}
