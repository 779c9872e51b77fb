package pricing

import (
	"sort"

	"artframe-storefront/models"
	"artframe-storefront/utils"
)

// Request describes one priceable configuration
type Request struct {
	Family        models.ProductFamily
	Size          string
	Custom        bool
	Dimensions    models.Dimensions
	Finish        models.Finish
	Tier          models.PricingTier
	Variant       string
	LightMode     models.LightMode
	Layout        string
	DeclaredSizes []string
}

// Option is one selectable size/finish/variant cell with its price.
// Available is false when the combination is not sold; the selector should be disabled
type Option struct {
	Size      string        `json:"size"`
	Finish    models.Finish `json:"finish,omitempty"`
	Variant   string        `json:"variant,omitempty"`
	Price     models.Price  `json:"price"`
	Available bool          `json:"available"`
}

type strategy interface {
	price(req Request) (models.Price, bool)
	options(req Request) []Option
}

// Price resolves the price of a configuration.
// ok is false when the combination is not sellable; the price is then meaningless
func (e *Engine) Price(req Request) (models.Price, bool) {
	s, exists := e.strategies[req.Family]
	if !exists {
		return 0, false
	}
	return s.price(req)
}

// Options lists every discrete option of the request's family with its price,
// holding the non-size axes of req fixed where the family needs them
func (e *Engine) Options(req Request) []Option {
	s, exists := e.strategies[req.Family]
	if !exists {
		return nil
	}
	return s.options(req)
}

func cellPrice(cell Cell) (models.Price, bool) {
	if cell == nil {
		return 0, false
	}
	return models.Price(*cell), true
}

// printStrategy looks prices up in the tiered print matrices
type printStrategy struct {
	book *Pricebook
}

func (s printStrategy) price(req Request) (models.Price, bool) {
	if req.Custom {
		return s.book.Formula.Custom(req.Dimensions.Width, req.Dimensions.Height, req.Finish)
	}
	return s.lookup(req.Tier, req.Size, req.Finish)
}

func (s printStrategy) lookup(tier models.PricingTier, size string, finish models.Finish) (models.Price, bool) {
	if tier == "" {
		tier = models.TierBasic
	}
	matrix, exists := s.book.Print[tier]
	if !exists {
		return 0, false
	}
	cells, exists := matrix[utils.NormalizeSize(size)]
	if !exists {
		return 0, false
	}
	return cellPrice(cells[finish])
}

func (s printStrategy) sizes(tier models.PricingTier) []string {
	if tier == "" {
		tier = models.TierBasic
	}
	sizes := make([]string, 0, len(s.book.Print[tier]))
	for size := range s.book.Print[tier] {
		sizes = append(sizes, size)
	}
	sortSizes(sizes)
	return sizes
}

func (s printStrategy) options(req Request) []Option {
	return s.matrixOptions(req.Tier, s.sizes(req.Tier))
}

func (s printStrategy) matrixOptions(tier models.PricingTier, sizes []string) []Option {
	options := make([]Option, 0, len(sizes)*len(models.PrintFinishes))
	for _, size := range sizes {
		for _, finish := range models.PrintFinishes {
			price, ok := s.lookup(tier, size, finish)
			options = append(options, Option{Size: size, Finish: finish, Price: price, Available: ok})
		}
	}
	return options
}

// canvasStrategy prices custom canvas on the basic print matrix,
// restricted to the sizes the product declares
type canvasStrategy struct {
	print printStrategy
}

func (s canvasStrategy) price(req Request) (models.Price, bool) {
	if req.Custom {
		return s.print.book.Formula.Custom(req.Dimensions.Width, req.Dimensions.Height, req.Finish)
	}
	if !s.declares(req.DeclaredSizes, req.Size) {
		return 0, false
	}
	return s.print.lookup(models.TierBasic, req.Size, req.Finish)
}

func (s canvasStrategy) declares(declared []string, size string) bool {
	if len(declared) == 0 {
		return true
	}
	want := utils.NormalizeSize(size)
	for _, d := range declared {
		if utils.NormalizeSize(d) == want {
			return true
		}
	}
	return false
}

func (s canvasStrategy) options(req Request) []Option {
	if len(req.DeclaredSizes) == 0 {
		return s.print.matrixOptions(models.TierBasic, s.print.sizes(models.TierBasic))
	}
	seen := make(map[string]bool, len(req.DeclaredSizes))
	sizes := make([]string, 0, len(req.DeclaredSizes))
	for _, d := range req.DeclaredSizes {
		size := utils.NormalizeSize(d)
		if size == "" || seen[size] {
			continue
		}
		seen[size] = true
		sizes = append(sizes, size)
	}
	sortSizes(sizes)
	return s.print.matrixOptions(models.TierBasic, sizes)
}

// acrylicStrategy looks prices up in the acrylic matrices; there is no area fallback
type acrylicStrategy struct {
	book *Pricebook
}

func (s acrylicStrategy) matrix(layout string) map[string]map[string]Cell {
	switch utils.MapLayout(layout) {
	case "square", "circle":
		return s.book.Acrylic.Square
	}
	return s.book.Acrylic.Rectangular
}

func (s acrylicStrategy) price(req Request) (models.Price, bool) {
	if req.Custom {
		return 0, false
	}
	cells, exists := s.matrix(req.Layout)[utils.NormalizeSize(req.Size)]
	if !exists {
		return 0, false
	}
	return cellPrice(cells[utils.MapLightVariant(req.Variant)])
}

func (s acrylicStrategy) options(req Request) []Option {
	matrix := s.matrix(req.Layout)
	sizes := make([]string, 0, len(matrix))
	for size := range matrix {
		sizes = append(sizes, size)
	}
	sortSizes(sizes)

	options := make([]Option, 0, len(sizes)*len(models.AcrylicVariants))
	for _, size := range sizes {
		for _, variant := range variantOrder(matrix[size]) {
			price, ok := cellPrice(matrix[size][variant])
			options = append(options, Option{Size: size, Variant: variant, Price: price, Available: ok})
		}
	}
	return options
}

// variantOrder returns the known variants first, then any others sorted
func variantOrder(cells map[string]Cell) []string {
	order := append([]string(nil), models.AcrylicVariants...)
	var extra []string
	for variant := range cells {
		known := false
		for _, v := range models.AcrylicVariants {
			if v == variant {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, variant)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// neonStrategy always prices by area; presets are only pre-filled dimensions
type neonStrategy struct {
	book *Pricebook
}

func (s neonStrategy) price(req Request) (models.Price, bool) {
	dims := req.Dimensions
	if !req.Custom {
		parsed, err := utils.ParseSize(req.Size)
		if err != nil {
			return 0, false
		}
		dims = parsed
	}
	return s.book.Neon.Rates.Price(dims.Width, dims.Height, req.LightMode)
}

func (s neonStrategy) options(req Request) []Option {
	options := make([]Option, 0, len(s.book.Neon.Presets))
	for _, preset := range s.book.Neon.Presets {
		price, ok := s.price(Request{Size: preset, LightMode: req.LightMode})
		options = append(options, Option{Size: preset, Finish: models.FinishNeon, Price: price, Available: ok})
	}
	return options
}
