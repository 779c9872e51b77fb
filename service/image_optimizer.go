package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"log"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// Quality settings
	qualityPreview = 75
	// Size settings (max dimension)
	maxSizePreview = 800
)

// OptimizePreview decodes a raster upload (PNG, JPEG, WEBP) and re-encodes it
// as a JPEG no larger than maxSizePreview on either side
func OptimizePreview(imageData []byte) ([]byte, error) {
	// Decode the image
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	var resizedImg image.Image = img
	if width > maxSizePreview || height > maxSizePreview {
		// Keep the aspect ratio; the long side becomes maxSizePreview
		var newWidth, newHeight int
		if width > height {
			newWidth = maxSizePreview
			newHeight = max(1, int(float64(height)*float64(maxSizePreview)/float64(width)))
		} else {
			newHeight = maxSizePreview
			newWidth = max(1, int(float64(width)*float64(maxSizePreview)/float64(height)))
		}

		log.Printf("🔄 Resizing image: %dx%d -> %dx%d", width, height, newWidth, newHeight)
		resizedImg = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	// Flatten transparency onto white so JPEG does not render it black
	canvas := imaging.New(resizedImg.Bounds().Dx(), resizedImg.Bounds().Dy(), color.White)
	flattened := imaging.Overlay(canvas, resizedImg, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: qualityPreview}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	optimizedData := buf.Bytes()

	log.Printf("✓ Preview optimized: quality=%d, output_size=%d bytes", qualityPreview, len(optimizedData))
	return optimizedData, nil
}
