package controller

import (
	"log"
	"net/http"
	"strconv"

	"artframe-storefront/models"
	"artframe-storefront/pricing"
	"artframe-storefront/utils"
)

// PricingController handles stateless price quotes
type PricingController struct {
	engine *pricing.Engine
}

// NewPricingController creates a new PricingController
func NewPricingController(engine *pricing.Engine) *PricingController {
	return &PricingController{engine: engine}
}

// QuoteResponse is a formula quote
type QuoteResponse struct {
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Finish    string       `json:"finish,omitempty"`
	LightMode string       `json:"lightMode,omitempty"`
	Available bool         `json:"available"`
	Price     models.Price `json:"price"`
	Label     string       `json:"label,omitempty"`
	Currency  string       `json:"currency"`
}

// CustomQuote handles GET /pricing/custom?width=20&height=30&finish=Frame
// and GET /pricing/custom?width=24&height=8&mode=rgb for neon
func (c *PricingController) CustomQuote(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CustomQuote: Received %s request to %s", r.Method, r.URL.String())

	q := r.URL.Query()
	width, errW := strconv.ParseFloat(q.Get("width"), 64)
	height, errH := strconv.ParseFloat(q.Get("height"), 64)
	if errW != nil || errH != nil {
		badRequest(w, "CustomQuote", "width and height must be numbers")
		return
	}

	resp := QuoteResponse{Width: width, Height: height, Currency: c.engine.Currency()}
	var price models.Price
	var ok bool

	switch {
	case q.Get("finish") != "":
		finish, known := utils.ParseFinish(q.Get("finish"))
		if !known {
			badRequest(w, "CustomQuote", "unknown finish")
			return
		}
		resp.Finish = string(finish)
		price, ok = c.engine.Formula().Custom(width, height, finish)
	case q.Get("mode") != "":
		mode, known := utils.ParseLightMode(q.Get("mode"))
		if !known {
			badRequest(w, "CustomQuote", "unknown light mode")
			return
		}
		resp.LightMode = string(mode)
		price, ok = c.engine.NeonRates().Price(width, height, mode)
	default:
		badRequest(w, "CustomQuote", "finish or mode is required")
		return
	}

	resp.Available = ok
	if ok {
		resp.Price = price
		resp.Label = utils.FormatPrice(price)
	}
	writeJSON(w, "CustomQuote", http.StatusOK, resp)
}
