package models

import "fmt"

// ProductFamily is the closed classification of a catalog entry
type ProductFamily string

const (
	FamilyStandardPrint ProductFamily = "standard_print"
	FamilyNeonSign      ProductFamily = "neon_sign"
	FamilyAcrylicPanel  ProductFamily = "acrylic_panel"
	FamilyCustomCanvas  ProductFamily = "custom_canvas"
)

// Valid reports whether f is one of the known families
func (f ProductFamily) Valid() bool {
	switch f {
	case FamilyStandardPrint, FamilyNeonSign, FamilyAcrylicPanel, FamilyCustomCanvas:
		return true
	}
	return false
}

// Finish is the physical presentation of a product
type Finish string

const (
	FinishRolled  Finish = "Rolled"
	FinishCanvas  Finish = "Canvas"
	FinishFrame   Finish = "Frame"
	FinishNeon    Finish = "Neon"
	FinishAcrylic Finish = "Acrylic"
)

// PrintFinishes are the finishes priced by the print matrices, in display order
var PrintFinishes = []Finish{FinishRolled, FinishCanvas, FinishFrame}

// PricingTier selects which StandardPrint matrix applies
type PricingTier string

const (
	TierBasic    PricingTier = "basic"
	TierTwoSet   PricingTier = "two_set"
	TierThreeSet PricingTier = "three_set"
)

// LightMode is the neon light intensity mode
type LightMode string

const (
	LightNormal LightMode = "normal"
	LightRGB    LightMode = "rgb"
)

// Acrylic light variants as they appear in the pricebook and image maps
const (
	VariantNoLight   = "no light"
	VariantWarmLight = "warm light"
	VariantRGBLight  = "rgb light"
)

// AcrylicVariants lists acrylic light variants in display order
var AcrylicVariants = []string{VariantNoLight, VariantWarmLight, VariantRGBLight}

// Frame colors in thumbnail order
var FrameColors = []string{"White", "Black", "Brown"}

// ProductDescriptor represents a catalog entry as delivered by the catalog
type ProductDescriptor struct {
	ID               int64             `json:"id"`
	Slug             string            `json:"slug"`
	Name             string            `json:"name"`
	Layout           string            `json:"layout"`
	Material         string            `json:"material"`
	Subsection       string            `json:"subsection,omitempty"`
	BaseImage        string            `json:"baseImage"`
	FinishImages     map[string]string `json:"finishImages,omitempty"`     // keyed by finish name
	FrameColorImages map[string]string `json:"frameColorImages,omitempty"` // keyed by frame color
	NeonImages       map[string]string `json:"neonImages,omitempty"`       // keyed by neon color
	AcrylicImages    map[string]string `json:"acrylicImages,omitempty"`    // keyed by light variant
	Gallery          []string          `json:"gallery,omitempty"`
	Sizes            []string          `json:"sizes,omitempty"` // declared size tokens
}

// Validate checks the descriptor invariants the engine relies on
func (p *ProductDescriptor) Validate() error {
	if len(p.NeonImages) > 0 && len(p.AcrylicImages) > 0 {
		return fmt.Errorf("product %q carries both neon and acrylic image maps", p.Slug)
	}
	return nil
}
