package pricing

import (
	"math"

	"artframe-storefront/models"
)

// Formula holds the area-pricing constants for families priced by dimensions
type Formula struct {
	RolledBase    float64 `json:"rolledBase"`
	RolledPerSqIn float64 `json:"rolledPerSqIn"`
	CanvasPerSqIn float64 `json:"canvasPerSqIn"`
	FramePerSqIn  float64 `json:"framePerSqIn"`
	FrameBase     float64 `json:"frameBase"`
	RoundTo       float64 `json:"roundTo"`
}

// NeonRates are the per-square-inch neon rates keyed by light mode
type NeonRates map[models.LightMode]float64

// DefaultFormula matches the shipped pricebook
var DefaultFormula = Formula{
	RolledBase:    500,
	RolledPerSqIn: 1.8,
	CanvasPerSqIn: 1.2,
	FramePerSqIn:  0.4,
	FrameBase:     150,
	RoundTo:       10,
}

// DefaultNeonRates matches the shipped pricebook
var DefaultNeonRates = NeonRates{
	models.LightNormal: 13,
	models.LightRGB:    16,
}

// CustomPrice prices a custom-size print with the default formula
func CustomPrice(width, height float64, finish models.Finish) (models.Price, bool) {
	return DefaultFormula.Custom(width, height, finish)
}

// NeonPrice prices a neon sign with the default rates
func NeonPrice(width, height float64, mode models.LightMode) (models.Price, bool) {
	return DefaultNeonRates.Price(width, height, mode)
}

// Custom computes the custom-size print price:
//
//	rolled = base + perSqIn*area
//	canvas = rolled + canvasPerSqIn*area
//	frame  = canvas + framePerSqIn*area + frameBase
//
// rounded to the nearest RoundTo units
func (f Formula) Custom(width, height float64, finish models.Finish) (models.Price, bool) {
	if !validSide(width) || !validSide(height) {
		return 0, false
	}

	area := width * height
	rolled := f.RolledBase + f.RolledPerSqIn*area
	canvas := rolled + f.CanvasPerSqIn*area
	frame := canvas + f.FramePerSqIn*area + f.FrameBase

	var raw float64
	switch finish {
	case models.FinishRolled:
		raw = rolled
	case models.FinishCanvas:
		raw = canvas
	case models.FinishFrame:
		raw = frame
	default:
		return 0, false
	}

	step := f.RoundTo
	if step <= 0 {
		step = 1
	}
	return toPrice(math.Round(raw/step) * step)
}

// Price computes width*height*rate for the given light mode.
// Whole-inch inputs are exact; fractional inches round to the nearest unit
func (r NeonRates) Price(width, height float64, mode models.LightMode) (models.Price, bool) {
	if !validSide(width) || !validSide(height) {
		return 0, false
	}
	if mode == "" {
		mode = models.LightNormal
	}
	rate, ok := r[mode]
	if !ok || rate <= 0 {
		return 0, false
	}
	return toPrice(math.Round(width * height * rate))
}

func validSide(v float64) bool {
	return models.SideWithinLimits(v)
}

// toPrice converts a computed amount; amounts outside the Price range are unavailable
func toPrice(raw float64) (models.Price, bool) {
	if math.IsNaN(raw) || raw < 0 || raw >= math.MaxInt64 {
		return 0, false
	}
	return models.Price(raw), true
}
