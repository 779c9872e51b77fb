package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgtype"

	"artframe-storefront/db"
	"artframe-storefront/models"
	"artframe-storefront/utils"
)

// Image axes stored in product_images.axis
const (
	axisFinish     = "finish"
	axisFrameColor = "frame_color"
	axisNeon       = "neon"
	axisAcrylic    = "acrylic"
)

// CatalogRepository loads product descriptors from the catalog tables
type CatalogRepository struct {
	typeMap *pgtype.Map
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{typeMap: pgtype.NewMap()}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

const productColumns = `id, slug, name, layout, material, subsection, base_image, gallery, sizes`

// GetBySlug retrieves an active product by its navigation slug
func (r *CatalogRepository) GetBySlug(ctx context.Context, slug string) (*models.ProductDescriptor, error) {
	normalized := utils.NormalizeSlug(slug)
	log.Printf("🔍 GetBySlug: Fetching product slug=%s", normalized)

	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1 AND is_active = true`
	return r.getOne(ctx, "GetBySlug", query, normalized)
}

// GetByID retrieves an active product by ID
func (r *CatalogRepository) GetByID(ctx context.Context, id int64) (*models.ProductDescriptor, error) {
	log.Printf("🔍 GetByID: Fetching product id=%d", id)

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active = true`
	return r.getOne(ctx, "GetByID", query, id)
}

func (r *CatalogRepository) getOne(ctx context.Context, op, query string, arg any) (*models.ProductDescriptor, error) {
	var p models.ProductDescriptor
	var gallery, sizes []string

	err := db.DB.QueryRowContext(ctx, query, arg).Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Layout,
		&p.Material,
		&p.Subsection,
		&p.BaseImage,
		r.typeMap.SQLScanner(&gallery),
		r.typeMap.SQLScanner(&sizes),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("❌ %s: Product not found: %v", op, arg)
			return nil, fmt.Errorf("%w: %v", ErrProductNotFound, arg)
		}
		log.Printf("❌ %s: Error fetching product: %v", op, err)
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	p.Gallery = gallery
	p.Sizes = sizes

	if err := r.loadImages(ctx, &p); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		// Bad catalog data is logged and served; classification tolerates it
		log.Printf("⚠️  %s: %v", op, err)
	}

	log.Printf("✓ %s: Loaded product id=%d slug=%s", op, p.ID, p.Slug)
	return &p, nil
}

// loadImages fills the per-axis image maps of p
func (r *CatalogRepository) loadImages(ctx context.Context, p *models.ProductDescriptor) error {
	query := `
		SELECT axis, axis_key, url
		FROM product_images
		WHERE product_id = $1
		ORDER BY axis, axis_key
	`

	rows, err := db.DB.QueryContext(ctx, query, p.ID)
	if err != nil {
		log.Printf("❌ loadImages: Error querying images for product id=%d: %v", p.ID, err)
		return fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	return scanImages(rows, p)
}

// imageRows is the part of *sql.Rows that scanImages reads
type imageRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanImages assigns every (axis, key, url) row to p. A row that fails to
// scan fails the whole load
func scanImages(rows imageRows, p *models.ProductDescriptor) error {
	for rows.Next() {
		var axis, key, url string
		if err := rows.Scan(&axis, &key, &url); err != nil {
			log.Printf("❌ loadImages: Error scanning image row for product id=%d: %v", p.ID, err)
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		assignImage(p, axis, key, url)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ loadImages: Error iterating images: %v", err)
		return fmt.Errorf("failed to iterate product images: %w", err)
	}
	return nil
}

// assignImage stores url in the map for axis; unknown axes are ignored
func assignImage(p *models.ProductDescriptor, axis, key, url string) {
	var target *map[string]string
	switch axis {
	case axisFinish:
		target = &p.FinishImages
	case axisFrameColor:
		target = &p.FrameColorImages
	case axisNeon:
		target = &p.NeonImages
	case axisAcrylic:
		target = &p.AcrylicImages
	default:
		log.Printf("⚠️  assignImage: Unknown image axis %q for product id=%d", axis, p.ID)
		return
	}
	if *target == nil {
		*target = make(map[string]string)
	}
	(*target)[key] = url
}
