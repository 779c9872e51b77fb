package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"artframe-storefront/app/controller"
	"artframe-storefront/app/router"
	"artframe-storefront/classifier"
	"artframe-storefront/config"
	"artframe-storefront/db"
	"artframe-storefront/presentation"
	"artframe-storefront/pricing"
	"artframe-storefront/repository"
	"artframe-storefront/service"
)

// Initialize initializes the application and returns its HTTP handler
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	// Initialize database connection
	if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.EnsureSchema(ctx, db.DB); err != nil {
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	engine, err := pricing.NewEngine(cfg.PricebookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricebook: %w", err)
	}

	cls := classifier.New(cfg.CustomNeonIdentities, cfg.CustomCanvasIdentities)
	guides := presentation.NewGuideSet(cfg.GuideImageBase)

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository()
	cartRepo := repository.NewCartRepository()

	// Artwork archive is optional; without it uploads travel inline with the cart line
	var archive service.ArtworkArchiveInterface
	if cfg.ArtworkDriveFolderID != "" {
		driveArchive, err := service.NewDriveArtworkArchive(ctx, cfg.CredentialsPath, cfg.CredentialsJSON, cfg.ArtworkDriveFolderID)
		if err != nil {
			return nil, err
		}
		archive = driveArchive
	} else {
		log.Printf("⚠️  Initialize: ARTWORK_DRIVE_FOLDER_ID not set, artwork archiving disabled")
	}

	// Initialize services
	configurator := service.NewConfiguratorService(catalogRepo, engine, cls, guides, cfg.SessionTTL)
	assets := service.NewAssetService(cfg.MaxUploadBytes)
	cart := service.NewCartService(configurator, cartRepo, archive, cfg.CartMaxAttempts)
	proofs, err := service.NewProofService(configurator, cfg.ChromePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize proof service: %w", err)
	}

	// Create controllers
	controllers := &router.Controllers{
		Configurator: controller.NewConfiguratorController(configurator, assets, cart, proofs),
		Pricing:      controller.NewPricingController(engine),
	}

	return router.SetupRoutes(controllers), nil
}
