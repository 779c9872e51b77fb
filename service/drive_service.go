package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"artframe-storefront/models"
	"artframe-storefront/utils"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveArtworkArchive archives custom artwork into a Google Drive folder
type DriveArtworkArchive struct {
	client   *drive.Service
	folderID string
}

// Ensure DriveArtworkArchive implements ArtworkArchiveInterface
var _ ArtworkArchiveInterface = (*DriveArtworkArchive)(nil)

// NewDriveArtworkArchive creates a DriveArtworkArchive.
// Service Account credentials come from credentialsJSON when set, otherwise from credentialsPath
func NewDriveArtworkArchive(ctx context.Context, credentialsPath, credentialsJSON, folderID string) (*DriveArtworkArchive, error) {
	if folderID == "" {
		return nil, fmt.Errorf("drive folder ID is required")
	}

	var opt option.ClientOption
	if credentialsJSON != "" {
		opt = option.WithCredentialsJSON([]byte(credentialsJSON))
	} else {
		opt = option.WithCredentialsFile(credentialsPath)
	}

	driveService, err := drive.NewService(ctx, opt, option.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveArtworkArchive{
		client:   driveService,
		folderID: folderID,
	}, nil
}

// Archive uploads the line's inline asset and returns a public download URL
func (a *DriveArtworkArchive) Archive(ctx context.Context, line *models.OrderLine) (string, error) {
	if line.Design == nil || line.Design.AssetDataURI == "" {
		return "", fmt.Errorf("line %s has no asset", line.LineID)
	}

	mediaType, data, err := DecodeDataURI(line.Design.AssetDataURI)
	if err != nil {
		return "", err
	}

	file := &drive.File{
		Name:        ArchiveFileName(line),
		Parents:     []string{a.folderID},
		MimeType:    mediaType,
		Description: archiveDescription(line),
	}

	created, err := a.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload artwork: %w", err)
	}

	// Build public URL
	imageURL := fmt.Sprintf("https://drive.google.com/uc?id=%s", created.Id)
	log.Printf("✓ Archive: Uploaded %s for line %s (drive id=%s)", created.Name, line.LineID, created.Id)
	return imageURL, nil
}

// ArchiveFileName names an archived asset <slug>_<size>_<line id><ext>
func ArchiveFileName(line *models.OrderLine) string {
	size := line.Size
	if line.Custom || size == "" {
		size = utils.FormatSize(line.Dimensions)
	}
	ext := ""
	if line.Design != nil {
		ext = strings.ToLower(filepath.Ext(line.Design.AssetFileName))
	}
	return fmt.Sprintf("%s_%s_%s%s", line.ProductSlug, size, line.LineID, ext)
}

func archiveDescription(line *models.OrderLine) string {
	parts := []string{
		"product=" + line.ProductSlug,
		"finish=" + string(line.Finish),
		"qty=" + fmt.Sprint(line.Quantity),
	}
	if line.Color != "" {
		parts = append(parts, "color="+line.Color)
	}
	if line.Design != nil && line.Design.Instructions != "" {
		parts = append(parts, "instructions="+line.Design.Instructions)
	}
	return strings.Join(parts, "; ")
}
