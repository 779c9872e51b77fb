package pricing

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"artframe-storefront/models"
	"artframe-storefront/utils"
)

//go:embed pricebook.json
var defaultPricebook []byte

// Cell is a price matrix entry; nil means the combination is not offered
type Cell = *int64

// PrintMatrix maps size token to finish to price cell
type PrintMatrix map[string]map[models.Finish]Cell

// Pricebook represents the pricing configuration structure
type Pricebook struct {
	Currency string                             `json:"currency"`
	Print    map[models.PricingTier]PrintMatrix `json:"print"`
	Acrylic  AcrylicMatrices                    `json:"acrylic"`
	Formula  Formula                            `json:"formula"`
	Neon     NeonConfig                         `json:"neon"`
}

// AcrylicMatrices holds the two acrylic size matrices keyed by size then light variant
type AcrylicMatrices struct {
	Rectangular map[string]map[string]Cell `json:"rectangular"`
	Square      map[string]map[string]Cell `json:"square"`
}

// NeonConfig holds neon rates and the preset sizes offered in the size picker
type NeonConfig struct {
	Rates   NeonRates `json:"rates"`
	Presets []string  `json:"presets"`
}

// Engine resolves prices from a loaded pricebook
type Engine struct {
	book       *Pricebook
	strategies map[models.ProductFamily]strategy
}

// NewEngine creates a pricing engine from the pricebook at configPath,
// or from the embedded pricebook when configPath is empty
func NewEngine(configPath string) (*Engine, error) {
	data := defaultPricebook
	source := "embedded pricebook"

	if configPath != "" {
		// Resolve config path
		if !filepath.IsAbs(configPath) {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			configPath = filepath.Join(wd, configPath)
		}

		fileData, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read pricebook: %w", err)
		}
		data = fileData
		source = configPath

		switch strings.ToLower(filepath.Ext(configPath)) {
		case ".yaml", ".yml":
			if data, err = yamlToJSON(fileData); err != nil {
				return nil, err
			}
		}
	}

	book, err := ParsePricebook(data)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ PricingEngine: Successfully loaded %s (%d print tiers, %d neon presets)", source, len(book.Print), len(book.Neon.Presets))
	return NewEngineFromPricebook(book), nil
}

// yamlToJSON re-encodes a YAML pricebook so both formats share one decoder
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pricebook YAML: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pricebook YAML: %w", err)
	}
	return out, nil
}

// NewEngineFromPricebook builds an engine around an already validated pricebook
func NewEngineFromPricebook(book *Pricebook) *Engine {
	e := &Engine{book: book}
	e.strategies = map[models.ProductFamily]strategy{
		models.FamilyStandardPrint: printStrategy{book: book},
		models.FamilyCustomCanvas:  canvasStrategy{print: printStrategy{book: book}},
		models.FamilyAcrylicPanel:  acrylicStrategy{book: book},
		models.FamilyNeonSign:      neonStrategy{book: book},
	}
	return e
}

// ParsePricebook parses, normalizes and validates pricebook JSON
func ParsePricebook(data []byte) (*Pricebook, error) {
	var book Pricebook
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("failed to parse pricebook: %w", err)
	}

	if err := normalizePricebook(&book); err != nil {
		return nil, fmt.Errorf("invalid pricebook: %w", err)
	}
	if err := validatePricebook(&book); err != nil {
		return nil, fmt.Errorf("invalid pricebook: %w", err)
	}
	return &book, nil
}

// normalizePricebook re-keys every size through NormalizeSize so lookups
// never depend on how the table author spelled a size. Two spellings of
// the same key in one table are rejected rather than silently merged
func normalizePricebook(book *Pricebook) error {
	for tier, sizes := range book.Print {
		normalized := make(PrintMatrix, len(sizes))
		for size, cells := range sizes {
			key := utils.NormalizeSize(size)
			if _, dup := normalized[key]; dup {
				return fmt.Errorf("print tier %q: size %s is listed more than once", tier, key)
			}
			normalized[key] = cells
		}
		book.Print[tier] = normalized
	}

	var err error
	if book.Acrylic.Rectangular, err = normalizeAcrylic("rectangular", book.Acrylic.Rectangular); err != nil {
		return err
	}
	if book.Acrylic.Square, err = normalizeAcrylic("square", book.Acrylic.Square); err != nil {
		return err
	}

	seen := make(map[string]bool, len(book.Neon.Presets))
	for i, preset := range book.Neon.Presets {
		key := utils.NormalizeSize(preset)
		if seen[key] {
			return fmt.Errorf("neon preset %s is listed more than once", key)
		}
		seen[key] = true
		book.Neon.Presets[i] = key
	}
	return nil
}

func normalizeAcrylic(shape string, matrix map[string]map[string]Cell) (map[string]map[string]Cell, error) {
	normalized := make(map[string]map[string]Cell, len(matrix))
	for size, variants := range matrix {
		key := utils.NormalizeSize(size)
		if _, dup := normalized[key]; dup {
			return nil, fmt.Errorf("acrylic %s: size %s is listed more than once", shape, key)
		}
		cells := make(map[string]Cell, len(variants))
		for variant, cell := range variants {
			mapped := utils.MapLightVariant(variant)
			if _, dup := cells[mapped]; dup {
				return nil, fmt.Errorf("acrylic %s size %s: variant %q is listed more than once", shape, key, mapped)
			}
			cells[mapped] = cell
		}
		normalized[key] = cells
	}
	return normalized, nil
}

func validatePricebook(book *Pricebook) error {
	if book.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	for _, tier := range []models.PricingTier{models.TierBasic, models.TierTwoSet, models.TierThreeSet} {
		if len(book.Print[tier]) == 0 {
			return fmt.Errorf("print tier %q is required", tier)
		}
	}
	for tier, sizes := range book.Print {
		for size, cells := range sizes {
			if _, err := utils.ParseSize(size); err != nil {
				return fmt.Errorf("print tier %q: %w", tier, err)
			}
			for finish, cell := range cells {
				if cell != nil && *cell < 0 {
					return fmt.Errorf("print tier %q size %s finish %s: negative price", tier, size, finish)
				}
			}
		}
	}
	if len(book.Acrylic.Rectangular) == 0 || len(book.Acrylic.Square) == 0 {
		return fmt.Errorf("both acrylic matrices are required")
	}
	if book.Neon.Rates[models.LightNormal] <= 0 || book.Neon.Rates[models.LightRGB] <= 0 {
		return fmt.Errorf("neon rates for normal and rgb are required")
	}
	if book.Neon.Rates[models.LightRGB] < book.Neon.Rates[models.LightNormal] {
		return fmt.Errorf("rgb neon rate must not be lower than normal")
	}
	for _, preset := range book.Neon.Presets {
		if _, err := utils.ParseSize(preset); err != nil {
			return fmt.Errorf("neon preset: %w", err)
		}
	}
	if book.Formula.RolledPerSqIn < 0 || book.Formula.CanvasPerSqIn < 0 || book.Formula.FramePerSqIn < 0 {
		return fmt.Errorf("formula rates must be non-negative")
	}
	return nil
}

// Currency returns the pricebook currency code
func (e *Engine) Currency() string {
	return e.book.Currency
}

// NeonPresets returns the neon preset sizes in pricebook order
func (e *Engine) NeonPresets() []string {
	return append([]string(nil), e.book.Neon.Presets...)
}

// Formula returns the custom-size formula in use
func (e *Engine) Formula() Formula {
	return e.book.Formula
}

// NeonRates returns the neon rates in use
func (e *Engine) NeonRates() NeonRates {
	return e.book.Neon.Rates
}

// sortSizes orders size tokens by area, then width, then token
func sortSizes(sizes []string) {
	sort.SliceStable(sizes, func(i, j int) bool {
		a, errA := utils.ParseSize(sizes[i])
		b, errB := utils.ParseSize(sizes[j])
		if errA != nil || errB != nil {
			return sizes[i] < sizes[j]
		}
		areaA, areaB := a.Width*a.Height, b.Width*b.Height
		if areaA != areaB {
			return areaA < areaB
		}
		if a.Width != b.Width {
			return a.Width < b.Width
		}
		return sizes[i] < sizes[j]
	})
}
