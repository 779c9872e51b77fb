package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"artframe-storefront/app/controller"
)

type Controllers struct {
	Configurator *controller.ConfiguratorController
	Pricing      *controller.PricingController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Ping endpoint
	r.Get("/ping", pingHandler)

	// Configurator sessions
	r.Route("/configurator/sessions", func(r chi.Router) {
		r.Post("/", controllers.Configurator.CreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.Configurator.GetSession)
			r.Patch("/", controllers.Configurator.UpdateSession)
			r.Delete("/", controllers.Configurator.DeleteSession)

			r.Post("/thumbnail", controllers.Configurator.PickThumbnail)
			r.Post("/asset", controllers.Configurator.UploadAsset)
			r.Post("/cart", controllers.Configurator.AddToCart)
			r.Post("/buy-now", controllers.Configurator.BuyNow)
			r.Get("/proof.pdf", controllers.Configurator.GetProof)
		})
	})

	// Stateless quotes for custom sizes
	r.Get("/pricing/custom", controllers.Pricing.CustomQuote)

	return r
}
