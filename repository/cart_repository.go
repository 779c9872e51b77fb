package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"artframe-storefront/db"
	"artframe-storefront/models"
)

// CartRepository persists order lines into the session's open cart
type CartRepository struct{}

// NewCartRepository creates a new CartRepository
func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// Ensure CartRepository implements CartRepositoryInterface
var _ CartRepositoryInterface = (*CartRepository)(nil)

// AddLine stores line in the open cart of its session for mode.
// Re-submitting the same line ID is a no-op, so callers may retry freely
func (r *CartRepository) AddLine(ctx context.Context, line *models.OrderLine, mode models.CartMode) (*models.CartReceipt, error) {
	log.Printf("🛒 AddLine: Adding line_id=%s product=%s mode=%s qty=%d", line.LineID, line.ProductSlug, mode, line.Quantity)

	if err := checkLine(line, mode); err != nil {
		log.Printf("❌ AddLine: %v", err)
		return nil, err
	}

	var design []byte
	if line.Design != nil {
		var err error
		design, err = json.Marshal(line.Design)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode design parameters: %v", ErrInvalidLine, err)
		}
	}

	// Start transaction
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ AddLine: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Find or open the cart for this session and mode
	queryCart := `
		INSERT INTO carts (session_id, mode, status)
		VALUES ($1, $2, 'open')
		ON CONFLICT (session_id, mode, status) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id
	`
	var cartID int64
	if err := tx.QueryRowContext(ctx, queryCart, line.SessionID, string(mode)).Scan(&cartID); err != nil {
		log.Printf("❌ AddLine: Error opening cart: %v", err)
		return nil, fmt.Errorf("failed to open cart: %w", err)
	}

	queryLine := `
		INSERT INTO cart_lines (
			line_id, cart_id, product_id, product_slug, family, finish, size, custom,
			width, height, color, variant, light_mode, tier, qty, unit_price, line_total,
			image, design, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (line_id) DO NOTHING
	`
	_, err = tx.ExecContext(ctx, queryLine,
		line.LineID,
		cartID,
		line.ProductID,
		line.ProductSlug,
		string(line.Family),
		string(line.Finish),
		line.Size,
		line.Custom,
		line.Dimensions.Width,
		line.Dimensions.Height,
		line.Color,
		line.Variant,
		string(line.LightMode),
		string(line.Tier),
		line.Quantity,
		int64(line.UnitPrice),
		int64(line.LineTotal),
		line.Image,
		nullableJSON(design),
		line.CreatedAt,
	)
	if err != nil {
		log.Printf("❌ AddLine: Error inserting cart line: %v", err)
		return nil, fmt.Errorf("failed to insert cart line: %w", err)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ AddLine: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ AddLine: Stored line_id=%s in cart_id=%d", line.LineID, cartID)
	return &models.CartReceipt{LineID: line.LineID, Mode: mode, CartID: cartID}, nil
}

func checkLine(line *models.OrderLine, mode models.CartMode) error {
	if line == nil {
		return fmt.Errorf("%w: line is nil", ErrInvalidLine)
	}
	if mode != models.CartModeCart && mode != models.CartModeBuyNow {
		return fmt.Errorf("%w: unknown cart mode %q", ErrInvalidLine, mode)
	}
	if line.LineID == "" || line.SessionID == "" {
		return fmt.Errorf("%w: line and session IDs are required", ErrInvalidLine)
	}
	if line.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidLine)
	}
	if line.UnitPrice < 0 || line.LineTotal < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidLine)
	}
	return nil
}

// nullableJSON maps an absent document to SQL NULL
func nullableJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
