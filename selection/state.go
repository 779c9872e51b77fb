// Package selection holds the in-session configuration of one product view.
//
// Every transition is synchronous and total: it either applies completely or
// returns an error and leaves the state untouched.
package selection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"artframe-storefront/models"
	"artframe-storefront/utils"
)

// DefaultNeonColor is used when a neon product has no color images
const DefaultNeonColor = "Warm White"

// MaxInstructionsLength bounds the free-text instructions
const MaxInstructionsLength = 1000

// MaxQuantity is the most pieces one order line may carry
const MaxQuantity = 999

var (
	ErrFinishNotOffered = errors.New("finish is not offered for this product")
	ErrAxisNotOffered   = errors.New("option is not offered for this product")
	ErrInvalidSize      = errors.New("invalid size")
	ErrInvalidQuantity  = fmt.Errorf("quantity must be between 1 and %d", MaxQuantity)
	ErrCustomNotOffered = errors.New("custom sizes are not offered for this product")
)

// State is the mutable configuration of a single product view
type State struct {
	Family       models.ProductFamily `json:"family"`
	Finish       models.Finish        `json:"finish"`
	Size         string               `json:"size,omitempty"`
	Custom       bool                 `json:"custom"`
	Dimensions   models.Dimensions    `json:"dimensions"`
	Color        string               `json:"color,omitempty"`
	Variant      string               `json:"variant,omitempty"`
	LightMode    models.LightMode     `json:"lightMode,omitempty"`
	Tier         models.PricingTier   `json:"tier,omitempty"`
	Quantity     int                  `json:"quantity"`
	Asset        *models.AssetRef     `json:"asset,omitempty"`
	Instructions string               `json:"instructions,omitempty"`
	Override     *models.Thumbnail    `json:"override,omitempty"`
}

// New creates a state seeded with the family defaults for the product
func New(family models.ProductFamily, d *models.ProductDescriptor, neonPresets []string) State {
	s := State{Family: family, Quantity: 1}

	switch family {
	case models.FamilyNeonSign:
		s.Finish = models.FinishNeon
		s.LightMode = models.LightNormal
		s.Color = defaultNeonColor(d)
		if len(neonPresets) > 0 {
			if dims, err := utils.ParseSize(neonPresets[0]); err == nil {
				s.Size = utils.NormalizeSize(neonPresets[0])
				s.Dimensions = dims
			}
		}
	case models.FamilyAcrylicPanel:
		s.Finish = models.FinishAcrylic
		s.Variant = models.VariantNoLight
	case models.FamilyCustomCanvas:
		s.Finish = models.FinishCanvas
		s.Tier = models.TierBasic
	default:
		s.Family = models.FamilyStandardPrint
		s.Finish = models.FinishRolled
		s.Tier = models.TierBasic
		if d != nil {
			s.Tier = utils.MapSubsectionToTier(d.Subsection)
		}
	}

	return s
}

func defaultNeonColor(d *models.ProductDescriptor) string {
	if d == nil || len(d.NeonImages) == 0 {
		return DefaultNeonColor
	}
	colors := make([]string, 0, len(d.NeonImages))
	for color := range d.NeonImages {
		colors = append(colors, color)
	}
	sort.Strings(colors)
	return colors[0]
}

// Clone returns a deep copy so snapshots never alias the live state
func (s State) Clone() State {
	c := s
	if s.Asset != nil {
		asset := *s.Asset
		c.Asset = &asset
	}
	if s.Override != nil {
		override := *s.Override
		c.Override = &override
	}
	return c
}

// AllowedFinishes lists the finishes a family can be sold in
func AllowedFinishes(family models.ProductFamily) []models.Finish {
	switch family {
	case models.FamilyNeonSign:
		return []models.Finish{models.FinishNeon}
	case models.FamilyAcrylicPanel:
		return []models.Finish{models.FinishAcrylic}
	}
	return models.PrintFinishes
}

// SelectSize picks a discrete size and leaves custom mode
func (s *State) SelectSize(size string) error {
	token := utils.NormalizeSize(size)
	if token == "" {
		return fmt.Errorf("%w: size is empty", ErrInvalidSize)
	}

	if s.Family == models.FamilyNeonSign {
		// neon presets are pre-filled dimensions
		dims, err := utils.ParseSize(token)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSize, err)
		}
		if !dims.WithinLimits() {
			return fmt.Errorf("%w: %s is larger than %g inches", ErrInvalidSize, token, models.MaxSide)
		}
		s.Dimensions = dims
	} else {
		s.Dimensions = models.Dimensions{}
	}

	s.Size = token
	s.Custom = false
	return nil
}

// SelectFinish changes the finish; any sticky image pick is dropped
func (s *State) SelectFinish(finish models.Finish) error {
	allowed := false
	for _, f := range AllowedFinishes(s.Family) {
		if f == finish {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrFinishNotOffered, finish)
	}

	if finish != s.Finish {
		s.Override = nil
	}
	s.Finish = finish
	return nil
}

// SelectColor sets the frame color (print families) or the neon color
func (s *State) SelectColor(color string) error {
	var next string
	switch s.Family {
	case models.FamilyNeonSign:
		next = strings.TrimSpace(color)
	case models.FamilyStandardPrint, models.FamilyCustomCanvas:
		next = utils.MapFrameColor(color)
	default:
		return fmt.Errorf("%w: color", ErrAxisNotOffered)
	}

	if next != s.Color && s.Override != nil && s.Override.Kind == models.ThumbFrameColor {
		s.Override = nil
	}
	s.Color = next
	return nil
}

// SelectVariant sets the acrylic light variant
func (s *State) SelectVariant(variant string) error {
	if s.Family != models.FamilyAcrylicPanel {
		return fmt.Errorf("%w: light variant", ErrAxisNotOffered)
	}
	next := utils.MapLightVariant(variant)
	if next == "" {
		return fmt.Errorf("%w: empty light variant", ErrAxisNotOffered)
	}

	if next != s.Variant && s.Override != nil && s.Override.Kind == models.ThumbLightVariant {
		s.Override = nil
	}
	s.Variant = next
	return nil
}

// SetLightMode switches neon between normal and RGB
func (s *State) SetLightMode(mode models.LightMode) error {
	if s.Family != models.FamilyNeonSign {
		return fmt.Errorf("%w: light mode", ErrAxisNotOffered)
	}
	if mode != models.LightNormal && mode != models.LightRGB {
		return fmt.Errorf("%w: light mode %q", ErrAxisNotOffered, mode)
	}
	s.LightMode = mode
	return nil
}

// SetTier selects the print pricing tier
func (s *State) SetTier(tier models.PricingTier) error {
	if s.Family != models.FamilyStandardPrint {
		return fmt.Errorf("%w: pricing tier", ErrAxisNotOffered)
	}
	switch tier {
	case models.TierBasic, models.TierTwoSet, models.TierThreeSet:
		s.Tier = tier
		return nil
	}
	return fmt.Errorf("%w: pricing tier %q", ErrAxisNotOffered, tier)
}

// EnableCustom switches to free-form dimensions
func (s *State) EnableCustom(dims models.Dimensions) error {
	if s.Family == models.FamilyAcrylicPanel {
		return ErrCustomNotOffered
	}
	if !dims.Positive() {
		return fmt.Errorf("%w: custom width and height must be positive", ErrInvalidSize)
	}
	if !dims.WithinLimits() {
		return fmt.Errorf("%w: custom width and height must be at most %g inches", ErrInvalidSize, models.MaxSide)
	}
	s.Custom = true
	s.Dimensions = dims
	s.Size = ""
	return nil
}

// DisableCustom leaves custom mode; neon falls back to the first preset
func (s *State) DisableCustom(neonPresets []string) {
	if !s.Custom {
		return
	}
	s.Custom = false
	s.Dimensions = models.Dimensions{}
	if s.Family == models.FamilyNeonSign && len(neonPresets) > 0 {
		// presets come from a validated pricebook
		_ = s.SelectSize(neonPresets[0])
	}
}

// SetQuantity sets the number of pieces
func (s *State) SetQuantity(qty int) error {
	if qty < 1 || qty > MaxQuantity {
		return fmt.Errorf("%w (got %d)", ErrInvalidQuantity, qty)
	}
	s.Quantity = qty
	return nil
}

// AttachAsset records a successfully encoded upload
func (s *State) AttachAsset(asset models.AssetRef) {
	s.Asset = &asset
}

// SetInstructions stores the free-text instructions, trimmed and bounded
func (s *State) SetInstructions(text string) {
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) > MaxInstructionsLength {
		text = string(r[:MaxInstructionsLength])
	}
	s.Instructions = text
}

// PickThumbnail makes a thumbnail the sticky displayed image
func (s *State) PickThumbnail(t models.Thumbnail) error {
	if strings.TrimSpace(t.Image) == "" {
		return fmt.Errorf("%w: thumbnail has no image", ErrAxisNotOffered)
	}
	s.Override = &t
	return nil
}

// ClearThumbnail drops the sticky image pick
func (s *State) ClearThumbnail() {
	s.Override = nil
}
