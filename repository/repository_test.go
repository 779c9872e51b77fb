package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artframe-storefront/models"
)

func TestAssignImage(t *testing.T) {
	p := &models.ProductDescriptor{ID: 7}

	assignImage(p, axisFinish, "Canvas", "canvas.jpg")
	assignImage(p, axisFrameColor, "White", "white.jpg")
	assignImage(p, axisNeon, "Pink", "pink.jpg")
	assignImage(p, axisAcrylic, "warm light", "warm.jpg")
	assignImage(p, "hologram", "x", "x.jpg")

	assert.Equal(t, map[string]string{"Canvas": "canvas.jpg"}, p.FinishImages)
	assert.Equal(t, map[string]string{"White": "white.jpg"}, p.FrameColorImages)
	assert.Equal(t, map[string]string{"Pink": "pink.jpg"}, p.NeonImages)
	assert.Equal(t, map[string]string{"warm light": "warm.jpg"}, p.AcrylicImages)
}

func TestCheckLine(t *testing.T) {
	valid := func() *models.OrderLine {
		return &models.OrderLine{LineID: "l1", SessionID: "s1", Quantity: 1, UnitPrice: 800, LineTotal: 800}
	}

	assert.NoError(t, checkLine(valid(), models.CartModeCart))
	assert.NoError(t, checkLine(valid(), models.CartModeBuyNow))

	tests := []struct {
		name string
		line *models.OrderLine
		mode models.CartMode
	}{
		{"nil line", nil, models.CartModeCart},
		{"unknown mode", valid(), "wishlist"},
		{"missing session", func() *models.OrderLine { l := valid(); l.SessionID = ""; return l }(), models.CartModeCart},
		{"zero quantity", func() *models.OrderLine { l := valid(); l.Quantity = 0; return l }(), models.CartModeCart},
		{"negative total", func() *models.OrderLine { l := valid(); l.LineTotal = -1; return l }(), models.CartModeCart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, checkLine(tt.line, tt.mode), ErrInvalidLine)
		})
	}
}

func TestNullableJSON(t *testing.T) {
	assert.Nil(t, nullableJSON(nil))
	assert.Equal(t, `{"color":"Pink"}`, nullableJSON([]byte(`{"color":"Pink"}`)))
}

type fakeImageRows struct {
	rows    [][3]string
	scanErr error
	iterErr error
	pos     int
}

func (f *fakeImageRows) Next() bool {
	if f.pos >= len(f.rows) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeImageRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	row := f.rows[f.pos-1]
	for i := range dest {
		*dest[i].(*string) = row[i]
	}
	return nil
}

func (f *fakeImageRows) Err() error { return f.iterErr }

func TestScanImages(t *testing.T) {
	rows := [][3]string{
		{axisFinish, "Canvas", "canvas.jpg"},
		{axisFrameColor, "Black", "black.jpg"},
	}
	scanErr := errors.New("cannot scan NULL into *string")
	iterErr := errors.New("connection reset")

	tests := []struct {
		name    string
		rows    *fakeImageRows
		wantErr error
		wantMsg string
	}{
		{"all rows", &fakeImageRows{rows: rows}, nil, ""},
		{"scan failure", &fakeImageRows{rows: rows, scanErr: scanErr}, scanErr, "failed to scan product image"},
		{"iteration failure", &fakeImageRows{rows: rows, iterErr: iterErr}, iterErr, "failed to iterate product images"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.ProductDescriptor{ID: 3}
			err := scanImages(tt.rows, p)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, map[string]string{"Canvas": "canvas.jpg"}, p.FinishImages)
				assert.Equal(t, map[string]string{"Black": "black.jpg"}, p.FrameColorImages)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}

	p := &models.ProductDescriptor{ID: 3}
	err := scanImages(&fakeImageRows{rows: rows, scanErr: scanErr}, p)
	require.Error(t, err)
	assert.Empty(t, p.FinishImages, "stops at the first bad row")
}
