package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artframe-storefront/models"
)

func TestCustomPriceWorkedExample(t *testing.T) {
	// area=600; rolled=1580; canvas=2300; frame=2690
	tests := []struct {
		finish models.Finish
		want   models.Price
	}{
		{models.FinishRolled, 1580},
		{models.FinishCanvas, 2300},
		{models.FinishFrame, 2690},
	}
	for _, tt := range tests {
		t.Run(string(tt.finish), func(t *testing.T) {
			got, ok := CustomPrice(20, 30, tt.finish)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCustomPriceRoundsToTen(t *testing.T) {
	// area=13*17=221; rolled=500+397.8=897.8 -> 900
	got, ok := CustomPrice(13, 17, models.FinishRolled)
	require.True(t, ok)
	assert.Equal(t, models.Price(900), got)
	assert.Zero(t, got%10)
}

func TestCustomPriceRejectsBadInput(t *testing.T) {
	for _, tc := range []struct {
		name   string
		w, h   float64
		finish models.Finish
	}{
		{"zero width", 0, 10, models.FinishCanvas},
		{"negative height", 10, -1, models.FinishCanvas},
		{"nan", math.NaN(), 10, models.FinishCanvas},
		{"inf", math.Inf(1), 10, models.FinishCanvas},
		{"neon finish", 10, 10, models.FinishNeon},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := CustomPrice(tc.w, tc.h, tc.finish)
			assert.False(t, ok)
		})
	}
}

func TestFormulasRejectOversizeDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
	}{
		{"huge both", 1e10, 1e10},
		{"just over the limit", models.MaxSide + 1, 10},
		{"huge height", 10, 1e300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, finish := range models.PrintFinishes {
				price, ok := CustomPrice(tt.w, tt.h, finish)
				assert.False(t, ok, "finish %s", finish)
				assert.Zero(t, price)
			}
			for _, mode := range []models.LightMode{models.LightNormal, models.LightRGB} {
				price, ok := NeonPrice(tt.w, tt.h, mode)
				assert.False(t, ok, "mode %s", mode)
				assert.Zero(t, price)
			}
		})
	}

	price, ok := CustomPrice(models.MaxSide, models.MaxSide, models.FinishFrame)
	require.True(t, ok)
	assert.Positive(t, price)
	price, ok = NeonPrice(models.MaxSide, models.MaxSide, models.LightRGB)
	require.True(t, ok)
	assert.Positive(t, price)
}

func TestFormulasRejectAmountsOutsidePriceRange(t *testing.T) {
	steep := Formula{RolledBase: 500, RolledPerSqIn: 1e30, RoundTo: 10}
	_, ok := steep.Custom(10, 10, models.FinishRolled)
	assert.False(t, ok)

	_, ok = NeonRates{models.LightNormal: 1e30}.Price(10, 10, models.LightNormal)
	assert.False(t, ok)

	_, ok = Formula{RolledBase: -5000, RoundTo: 10}.Custom(1, 1, models.FinishRolled)
	assert.False(t, ok, "negative amounts are not prices")
}

func TestNeonPriceWorkedExample(t *testing.T) {
	got, ok := NeonPrice(24, 8, models.LightNormal)
	require.True(t, ok)
	assert.Equal(t, models.Price(24*8*13), got)

	got, ok = NeonPrice(24, 8, "")
	require.True(t, ok, "empty mode means normal")
	assert.Equal(t, models.Price(2496), got)

	_, ok = NeonPrice(24, 8, "strobe")
	assert.False(t, ok)
}

func TestFormulasAreMonotonic(t *testing.T) {
	sides := []float64{1, 2, 5, 7.5, 10, 12, 18, 24, 30, 36, 48, 60, 72}

	for _, finish := range models.PrintFinishes {
		for _, fixed := range sides {
			var prevW, prevH models.Price
			for i, v := range sides {
				byWidth, ok := CustomPrice(v, fixed, finish)
				require.True(t, ok)
				byHeight, ok := CustomPrice(fixed, v, finish)
				require.True(t, ok)
				if i > 0 {
					assert.GreaterOrEqual(t, byWidth, prevW, "%s width %v height %v", finish, v, fixed)
					assert.GreaterOrEqual(t, byHeight, prevH, "%s width %v height %v", finish, fixed, v)
				}
				prevW, prevH = byWidth, byHeight
			}
		}
	}

	for _, mode := range []models.LightMode{models.LightNormal, models.LightRGB} {
		for _, fixed := range sides {
			var prevW, prevH models.Price
			for i, v := range sides {
				byWidth, ok := NeonPrice(v, fixed, mode)
				require.True(t, ok)
				byHeight, ok := NeonPrice(fixed, v, mode)
				require.True(t, ok)
				if i > 0 {
					assert.GreaterOrEqual(t, byWidth, prevW)
					assert.GreaterOrEqual(t, byHeight, prevH)
				}
				prevW, prevH = byWidth, byHeight
			}
		}
	}
}

func TestDefaultFormulaMatchesPricebook(t *testing.T) {
	book, err := ParsePricebook(defaultPricebook)
	require.NoError(t, err)
	assert.Equal(t, DefaultFormula, book.Formula)
	assert.Equal(t, DefaultNeonRates, book.Neon.Rates)
}
