package utils

import (
	"sort"
	"strings"

	"artframe-storefront/models"
)

// MapFrameColor maps frame color names and aliases to their canonical name
// Input is normalized to lowercase before mapping
// Returns the canonical capitalized color, or the trimmed input if unknown
func MapFrameColor(color string) string {
	colorLower := strings.ToLower(strings.TrimSpace(color))

	colorMap := map[string]string{
		"white":        "White",
		"wht":          "White",
		"black":        "Black",
		"blk":          "Black",
		"brown":        "Brown",
		"wood":         "Brown",
		"walnut":       "Brown",
		"natural wood": "Brown",
	}

	if canonical, exists := colorMap[colorLower]; exists {
		return canonical
	}

	return strings.TrimSpace(color)
}

// MapLightVariant maps acrylic light variant labels to their pricebook key
// Input is normalized to lowercase before mapping
func MapLightVariant(variant string) string {
	variantLower := strings.ToLower(strings.Join(strings.Fields(variant), " "))

	variantMap := map[string]string{
		"no light":      models.VariantNoLight,
		"without light": models.VariantNoLight,
		"none":          models.VariantNoLight,
		"off":           models.VariantNoLight,
		"warm light":    models.VariantWarmLight,
		"warm":          models.VariantWarmLight,
		"warm white":    models.VariantWarmLight,
		"rgb light":     models.VariantRGBLight,
		"rgb":           models.VariantRGBLight,
		"multicolor":    models.VariantRGBLight,
	}

	if key, exists := variantMap[variantLower]; exists {
		return key
	}

	return variantLower
}

// MapLayout maps a free-text layout tag to one of landscape, portrait, square, circle
// Returns an empty string when the tag names none of them
func MapLayout(layout string) string {
	layoutLower := strings.ToLower(layout)

	switch {
	case strings.Contains(layoutLower, "circle"), strings.Contains(layoutLower, "circular"), strings.Contains(layoutLower, "round"):
		return "circle"
	case strings.Contains(layoutLower, "square"):
		return "square"
	case strings.Contains(layoutLower, "landscape"), strings.Contains(layoutLower, "horizontal"):
		return "landscape"
	case strings.Contains(layoutLower, "portrait"), strings.Contains(layoutLower, "vertical"):
		return "portrait"
	}

	return ""
}

// MapSubsectionToTier maps the catalog subsection tag to a pricing tier
// "3 set" / "three piece" -> ThreeSet, "2 set" / "two piece" -> TwoSet, anything else -> Basic
func MapSubsectionToTier(subsection string) models.PricingTier {
	subLower := strings.ToLower(strings.TrimSpace(subsection))

	switch {
	case strings.Contains(subLower, "3"), strings.Contains(subLower, "three"):
		return models.TierThreeSet
	case strings.Contains(subLower, "2"), strings.Contains(subLower, "two"):
		return models.TierTwoSet
	}

	return models.TierBasic
}

// ParseTier maps a user-supplied tier name to a pricing tier
// Returns false for unknown names
func ParseTier(tier string) (models.PricingTier, bool) {
	tierLower := strings.ToLower(strings.TrimSpace(tier))

	tierMap := map[string]models.PricingTier{
		"basic":     models.TierBasic,
		"single":    models.TierBasic,
		"two_set":   models.TierTwoSet,
		"2 set":     models.TierTwoSet,
		"two set":   models.TierTwoSet,
		"three_set": models.TierThreeSet,
		"3 set":     models.TierThreeSet,
		"three set": models.TierThreeSet,
	}

	t, exists := tierMap[tierLower]
	return t, exists
}

// ParseFinish maps a finish name to its canonical value, case-insensitively
func ParseFinish(finish string) (models.Finish, bool) {
	for _, f := range []models.Finish{models.FinishRolled, models.FinishCanvas, models.FinishFrame, models.FinishNeon, models.FinishAcrylic} {
		if strings.EqualFold(strings.TrimSpace(finish), string(f)) {
			return f, true
		}
	}
	return "", false
}

// ParseLightMode maps a neon light mode name to its canonical value
func ParseLightMode(mode string) (models.LightMode, bool) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "normal", "":
		return models.LightNormal, true
	case "rgb":
		return models.LightRGB, true
	}
	return "", false
}

// NormalizeSlug lowercases a navigation identity and maps spaces and underscores to hyphens
func NormalizeSlug(slug string) string {
	s := strings.ToLower(strings.TrimSpace(slug))
	s = strings.ReplaceAll(s, "_", "-")
	return strings.Join(strings.Fields(s), "-")
}

// LookupFold finds a map entry whose key equals key ignoring case and surrounding space
// Exact matches win; among case-insensitive matches the smallest key wins so the result is stable
func LookupFold(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok && v != "" {
		return v, true
	}
	want := strings.TrimSpace(key)
	if want == "" {
		return "", false
	}

	var candidates []string
	for k, v := range m {
		if v != "" && strings.EqualFold(strings.TrimSpace(k), want) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return m[candidates[0]], true
}
