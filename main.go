package main

import (
	"context"
	"log"
	"net/http"

	"artframe-storefront/app"
	"artframe-storefront/config"
	"artframe-storefront/db"
)

func main() {
	// Load .env file in development; in production variables are set directly
	config.LoadDotEnv(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize application
	handler, err := app.Initialize(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.CloseDB()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	addr := cfg.Addr()
	log.Printf("Server starting on %s", addr)
	log.Printf("Configurator endpoint: POST http://localhost:%s/configurator/sessions", cfg.Port)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
