package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"artframe-storefront/models"
)

// sizeTokenRegex matches WIDTH<sep>HEIGHT with optional inch markers.
// Separators: x, X, ×, *, by
var sizeTokenRegex = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(?:"|in|inch|inches)?\s*(?:x|×|\*|by)\s*(\d+(?:\.\d+)?)\s*(?:"|in|inch|inches)?$`)

// NormalizeSize canonicalizes a size token to WIDTHXHEIGHT
// Examples: "24x36", "24 X 36", "24×36", "24\" by 36\"" -> "24X36"
// Inputs that are not a width/height pair are uppercased with whitespace removed,
// so the function is idempotent for every input
func NormalizeSize(size string) string {
	trimmed := strings.TrimSpace(size)
	if token, ok := canonicalSize(trimmed); ok {
		return token
	}
	collapsed := strings.ToUpper(strings.Join(strings.Fields(trimmed), ""))
	if token, ok := canonicalSize(collapsed); ok {
		return token
	}
	return collapsed
}

func canonicalSize(s string) (string, bool) {
	matches := sizeTokenRegex.FindStringSubmatch(s)
	if len(matches) != 3 {
		return "", false
	}
	w, errW := strconv.ParseFloat(matches[1], 64)
	h, errH := strconv.ParseFloat(matches[2], 64)
	if errW != nil || errH != nil {
		return "", false
	}
	return formatInches(w) + "X" + formatInches(h), true
}

// ParseSize parses a size token into dimensions
func ParseSize(size string) (models.Dimensions, error) {
	normalized := NormalizeSize(size)
	parts := strings.Split(normalized, "X")
	if len(parts) != 2 || !sizeTokenRegex.MatchString(normalized) {
		return models.Dimensions{}, fmt.Errorf("invalid size token %q: expected WIDTHXHEIGHT", size)
	}
	w, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return models.Dimensions{}, fmt.Errorf("invalid width in size token %q: %w", size, err)
	}
	h, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return models.Dimensions{}, fmt.Errorf("invalid height in size token %q: %w", size, err)
	}
	return models.Dimensions{Width: w, Height: h}, nil
}

// FormatSize renders dimensions as a canonical size token
func FormatSize(d models.Dimensions) string {
	return formatInches(d.Width) + "X" + formatInches(d.Height)
}

func formatInches(v float64) string {
	if v == math.Trunc(v) && v < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
