package models

import "math"

// Price is an amount in whole currency units
type Price int64

// Times returns p*n; ok is false when the product does not fit in a Price
func (p Price) Times(n int) (Price, bool) {
	if p < 0 || n < 0 {
		return 0, false
	}
	if p != 0 && Price(n) > math.MaxInt64/p {
		return 0, false
	}
	return p * Price(n), true
}

// MaxSide is the largest width or height offered, in inches
const MaxSide = 600.0

// Dimensions are width and height in inches
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Positive reports whether both sides are populated
func (d Dimensions) Positive() bool {
	return d.Width > 0 && d.Height > 0
}

// WithinLimits reports whether both sides are positive, finite and at most MaxSide
func (d Dimensions) WithinLimits() bool {
	return SideWithinLimits(d.Width) && SideWithinLimits(d.Height)
}

// SideWithinLimits reports whether v is a usable width or height
func SideWithinLimits(v float64) bool {
	return v > 0 && v <= MaxSide && !math.IsNaN(v)
}

// ThumbnailKind identifies which axis a thumbnail came from
type ThumbnailKind string

const (
	ThumbBase         ThumbnailKind = "base"
	ThumbFrameColor   ThumbnailKind = "frame_color"
	ThumbGallery      ThumbnailKind = "gallery"
	ThumbLightVariant ThumbnailKind = "light_variant"
	ThumbLayoutGuide  ThumbnailKind = "layout_guide"
	ThumbMaterial     ThumbnailKind = "material"
)

// Thumbnail is a selectable preview image
type Thumbnail struct {
	Image string        `json:"image"`
	Kind  ThumbnailKind `json:"kind"`
	Key   string        `json:"key,omitempty"` // axis value, e.g. "White" for frame colors
}

// AssetRef is an uploaded artwork converted to an inline representation
type AssetRef struct {
	FileName  string `json:"fileName"`
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
	DataURI   string `json:"dataUri"`
	Preview   string `json:"preview,omitempty"` // downscaled JPEG data URI for raster uploads
}
