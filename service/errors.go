package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned for unknown, discarded or expired sessions
	ErrSessionNotFound = errors.New("configurator session not found")
	// ErrThumbnailNotFound is returned when a pick names no current thumbnail
	ErrThumbnailNotFound = errors.New("thumbnail not found")
	// ErrUnsupportedAsset is returned for uploads outside the media type allow-list
	ErrUnsupportedAsset = errors.New("unsupported asset type")
	// ErrAssetTooLarge is returned for uploads over the configured limit
	ErrAssetTooLarge = errors.New("asset too large")
)

// CollaboratorError reports a failed call to the catalog, cart or archive.
// The session is untouched; when Retryable the user may submit again
type CollaboratorError struct {
	Collaborator string
	Attempts     int
	Retryable    bool
	Err          error
}

func (e *CollaboratorError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("%s unavailable after %d attempts: %v", e.Collaborator, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
