// Package presentation decides which images represent a configured product.
//
// Both the displayed image and the thumbnail strip are pure functions of the
// selection and the descriptor; nothing here caches or mutates.
package presentation

import (
	"sort"
	"strings"

	"artframe-storefront/models"
	"artframe-storefront/selection"
	"artframe-storefront/utils"
)

// Source names the precedence rule that produced an image
type Source string

const (
	SourceOverride     Source = "override"
	SourceLightVariant Source = "light_variant"
	SourceNeonColor    Source = "neon_color"
	SourceFinish       Source = "finish"
	SourceFrameColor   Source = "frame_color"
	SourceBase         Source = "base"
	SourceNone         Source = "none"
)

// Resolved is the displayed image and the rule that chose it
type Resolved struct {
	Image  string `json:"image"`
	Source Source `json:"source"`
}

type imageRule struct {
	source Source
	pick   func(s selection.State, d *models.ProductDescriptor) string
}

// imageRules run in order; the first non-empty pick wins
var imageRules = []imageRule{
	{SourceOverride, func(s selection.State, _ *models.ProductDescriptor) string {
		if s.Override == nil {
			return ""
		}
		return strings.TrimSpace(s.Override.Image)
	}},
	{SourceLightVariant, func(s selection.State, d *models.ProductDescriptor) string {
		if s.Family != models.FamilyAcrylicPanel {
			return ""
		}
		return variantImage(d.AcrylicImages, s.Variant)
	}},
	{SourceNeonColor, func(s selection.State, d *models.ProductDescriptor) string {
		if s.Family != models.FamilyNeonSign {
			return ""
		}
		img, _ := utils.LookupFold(d.NeonImages, s.Color)
		return img
	}},
	{SourceFinish, func(s selection.State, d *models.ProductDescriptor) string {
		return d.FinishImages[string(s.Finish)]
	}},
	{SourceFrameColor, func(s selection.State, d *models.ProductDescriptor) string {
		if s.Finish != models.FinishFrame || s.Color == "" {
			return ""
		}
		img, _ := utils.LookupFold(d.FrameColorImages, s.Color)
		return img
	}},
	{SourceBase, func(_ selection.State, d *models.ProductDescriptor) string {
		return d.BaseImage
	}},
}

// Resolve returns the image to display for the selection.
// The result is only empty when the descriptor has no base image and no other rule applies
func Resolve(s selection.State, d *models.ProductDescriptor) Resolved {
	if d == nil {
		d = &models.ProductDescriptor{}
	}
	for _, rule := range imageRules {
		if img := rule.pick(s, d); img != "" {
			return Resolved{Image: img, Source: rule.source}
		}
	}
	return Resolved{Source: SourceNone}
}

// variantImage finds the acrylic image for a variant, accepting any label
// spelling that maps to the same variant key
func variantImage(images map[string]string, variant string) string {
	want := utils.MapLightVariant(variant)
	if want == "" {
		return ""
	}
	if img, ok := utils.LookupFold(images, want); ok {
		return img
	}

	keys := make([]string, 0, len(images))
	for k := range images {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if images[k] != "" && utils.MapLightVariant(k) == want {
			return images[k]
		}
	}
	return ""
}
