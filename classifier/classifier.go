// Package classifier decides which product family a catalog entry belongs to.
//
// The catalog does not store the family, so it is inferred from the navigation
// identity and the free-text layout/material tags. Rules run in order and the
// first match wins; the final rule always matches, so classification is total.
package classifier

import (
	"strings"

	"artframe-storefront/models"
	"artframe-storefront/utils"
)

// Default navigation identities of the dedicated custom catalog entries
var (
	DefaultCustomNeonIdentities   = []string{"custom-neon", "custom-neon-sign", "neon-custom"}
	DefaultCustomCanvasIdentities = []string{"custom-canvas", "custom-canvas-print", "canvas-custom"}
)

// nonLightingMarkers are tags of families that sometimes sit under a lighting
// navigation path without being light fixtures
var nonLightingMarkers = []string{"spiritual", "canvas"}

// Input is a descriptor together with the navigation identity it was opened from
type Input struct {
	Identity   string
	Descriptor *models.ProductDescriptor
}

// Rule is one named classification predicate
type Rule struct {
	Name   string
	Family models.ProductFamily
	Match  func(c *Classifier, in Input) bool
}

// Result is the chosen family and the rule that decided it
type Result struct {
	Family models.ProductFamily `json:"family"`
	Rule   string               `json:"rule"`
}

// Classifier holds the identity sets and the ordered rule chain
type Classifier struct {
	neonIdentities   map[string]bool
	canvasIdentities map[string]bool
	rules            []Rule
}

// New creates a classifier; nil identity lists fall back to the defaults
func New(neonIdentities, canvasIdentities []string) *Classifier {
	if neonIdentities == nil {
		neonIdentities = DefaultCustomNeonIdentities
	}
	if canvasIdentities == nil {
		canvasIdentities = DefaultCustomCanvasIdentities
	}
	return &Classifier{
		neonIdentities:   identitySet(neonIdentities),
		canvasIdentities: identitySet(canvasIdentities),
		rules:            defaultRules,
	}
}

func identitySet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[utils.NormalizeSlug(id)] = true
	}
	return set
}

// Rules returns the rule chain in evaluation order
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify returns the family of the input. A nil descriptor is treated as empty
func (c *Classifier) Classify(in Input) Result {
	if in.Descriptor == nil {
		in.Descriptor = &models.ProductDescriptor{}
	}
	for _, rule := range c.rules {
		if rule.Match(c, in) {
			return Result{Family: rule.Family, Rule: rule.Name}
		}
	}
	// unreachable: the last rule always matches
	return Result{Family: models.FamilyStandardPrint, Rule: "default"}
}

var defaultRules = []Rule{
	{
		Name:   "custom-neon-identity",
		Family: models.FamilyNeonSign,
		Match: func(c *Classifier, in Input) bool {
			return c.neonIdentities[utils.NormalizeSlug(in.Identity)]
		},
	},
	{
		Name:   "custom-canvas-identity",
		Family: models.FamilyCustomCanvas,
		Match: func(c *Classifier, in Input) bool {
			return c.canvasIdentities[utils.NormalizeSlug(in.Identity)]
		},
	},
	{
		// Legacy carve-out: entries tagged with a non-lighting marker are only
		// neon when the layout tag or the neon image map says so explicitly.
		Name:   "neon-signal",
		Family: models.FamilyNeonSign,
		Match: func(c *Classifier, in Input) bool {
			d := in.Descriptor
			hasImages := len(d.NeonImages) > 0
			if !hasImages && !containsFold(d.Material, "neon") {
				return false
			}
			explicit := hasImages || containsFold(d.Layout, "neon")
			if explicit {
				return true
			}
			for _, marker := range nonLightingMarkers {
				if containsFold(d.Layout, marker) || containsFold(d.Material, marker) {
					return false
				}
			}
			return true
		},
	},
	{
		Name:   "acrylic-tag",
		Family: models.FamilyAcrylicPanel,
		Match: func(c *Classifier, in Input) bool {
			return containsFold(in.Descriptor.Layout, "acrylic") || containsFold(in.Descriptor.Material, "acrylic")
		},
	},
	{
		Name:   "default",
		Family: models.FamilyStandardPrint,
		Match:  func(*Classifier, Input) bool { return true },
	},
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(s)), substr)
}
