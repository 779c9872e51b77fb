package selection

import (
	"errors"

	"artframe-storefront/models"
)

// Rule codes reported to the client
const (
	CodeSizeRequired           = "size_required"
	CodeColorRequired          = "color_required"
	CodeAssetRequired          = "asset_required"
	CodeCombinationUnavailable = "combination_unavailable"
)

var (
	ErrSizeRequired           = errors.New("size required")
	ErrColorRequired          = errors.New("color required")
	ErrAssetRequired          = errors.New("asset required")
	ErrCombinationUnavailable = errors.New("combination unavailable")
)

// ValidationError blocks a terminal action and names the rule it broke
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	sizeViolation        = ValidationError{Code: CodeSizeRequired, Message: "Please select a size", Err: ErrSizeRequired}
	colorViolation       = ValidationError{Code: CodeColorRequired, Message: "Please select a frame color", Err: ErrColorRequired}
	assetViolation       = ValidationError{Code: CodeAssetRequired, Message: "Please upload an image", Err: ErrAssetRequired}
	unavailableViolation = ValidationError{Code: CodeCombinationUnavailable, Message: "This combination is not available", Err: ErrCombinationUnavailable}
)

// Violations lists every broken rule in evaluation order
func (s State) Violations() []*ValidationError {
	var out []*ValidationError

	if !s.hasSize() {
		v := sizeViolation
		out = append(out, &v)
	}
	if s.Finish == models.FinishFrame && s.Color == "" {
		v := colorViolation
		out = append(out, &v)
	}
	if s.Family == models.FamilyCustomCanvas && (s.Asset == nil || s.Asset.DataURI == "") {
		v := assetViolation
		out = append(out, &v)
	}

	return out
}

// Validate returns the first broken rule, or nil when the selection is complete
func (s State) Validate() error {
	if v := s.Violations(); len(v) > 0 {
		return v[0]
	}
	return nil
}

// ValidateForCheckout also requires the configuration to have a price
func (s State) ValidateForCheckout(priceAvailable bool) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if !priceAvailable {
		v := unavailableViolation
		return &v
	}
	return nil
}

func (s State) hasSize() bool {
	// neon presets and custom entry both always populate dimensions
	if s.Family == models.FamilyNeonSign {
		return true
	}
	if s.Custom {
		return s.Dimensions.Positive()
	}
	return s.Size != ""
}
