package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"artframe-storefront/models"
)

// DefaultMaxUploadBytes bounds a single artwork upload
const DefaultMaxUploadBytes = 10 << 20

// allowedMediaTypes is the upload allow-list; the value marks raster formats
var allowedMediaTypes = map[string]bool{
	"image/svg+xml": false,
	"image/png":     true,
	"image/jpeg":    true,
	"image/webp":    true,
}

var mediaTypeAliases = map[string]string{
	"image/jpg":   "image/jpeg",
	"image/pjpeg": "image/jpeg",
	"image/svg":   "image/svg+xml",
}

// AssetService turns an uploaded artwork file into an inline asset reference
type AssetService struct {
	maxBytes int64
}

// NewAssetService creates a new AssetService
func NewAssetService(maxBytes int64) *AssetService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &AssetService{maxBytes: maxBytes}
}

// MaxBytes returns the upload size limit
func (s *AssetService) MaxBytes() int64 {
	return s.maxBytes
}

// NormalizeMediaType strips parameters and maps aliases.
// ok is false when the type is not on the allow-list
func NormalizeMediaType(declared string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(declared))
	if err != nil {
		return "", false
	}
	mediaType = strings.ToLower(mediaType)
	if alias, exists := mediaTypeAliases[mediaType]; exists {
		mediaType = alias
	}
	_, ok := allowedMediaTypes[mediaType]
	return mediaType, ok
}

// Encode validates and inlines one upload. The declared media type is checked
// before anything is read; the content must then match it. ctx cancellation
// aborts the read and nothing is returned
func (s *AssetService) Encode(ctx context.Context, fileName, declaredType string, r io.Reader) (*models.AssetRef, error) {
	mediaType, ok := NormalizeMediaType(declaredType)
	if !ok {
		log.Printf("❌ Encode: Rejected %s with media type %q", fileName, declaredType)
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAsset, declaredType)
	}

	data, err := io.ReadAll(io.LimitReader(&contextReader{ctx: ctx, r: r}, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		log.Printf("❌ Encode: %s exceeds %d bytes", fileName, s.maxBytes)
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrAssetTooLarge, s.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrUnsupportedAsset)
	}

	if err := checkContent(mediaType, data); err != nil {
		log.Printf("❌ Encode: %s: %v", fileName, err)
		return nil, err
	}

	asset := &models.AssetRef{
		FileName:  filepath.Base(strings.TrimSpace(fileName)),
		MediaType: mediaType,
		Size:      int64(len(data)),
		DataURI:   dataURI(mediaType, data),
	}

	if allowedMediaTypes[mediaType] {
		preview, err := OptimizePreview(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedAsset, err)
		}
		asset.Preview = dataURI("image/jpeg", preview)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("✅ Encode: Encoded %s (%s, %d bytes)", asset.FileName, mediaType, asset.Size)
	return asset, nil
}

// checkContent verifies the bytes look like the declared type
func checkContent(mediaType string, data []byte) error {
	if mediaType == "image/svg+xml" {
		if !bytes.Contains(bytes.ToLower(data[:min(len(data), 4096)]), []byte("<svg")) {
			return fmt.Errorf("%w: content is not SVG", ErrUnsupportedAsset)
		}
		return nil
	}
	if sniffed := http.DetectContentType(data); sniffed != mediaType {
		return fmt.Errorf("%w: declared %s but content is %s", ErrUnsupportedAsset, mediaType, sniffed)
	}
	return nil
}

func dataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI returns the media type and bytes of a base64 data URI
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	return strings.TrimSuffix(header, ";base64"), data, nil
}

// contextReader fails reads once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
