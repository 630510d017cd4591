package domain

import (
	"context"
	"time"
)

// Source defines the interface for the remote image-of-the-day service.
// Implementations perform one network call per method, with a fixed timeout
// and no retry; caching is the archive's responsibility.
//
//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/lochfern/bingwall/internal/domain Source,Store,Executor
type Source interface {
	// FetchMetadata requests the metadata for the single day at offset
	// (0 = most recent per the service's own indexing) in the given
	// region and returns the raw JSON response body.
	FetchMetadata(ctx context.Context, offset int, region string) ([]byte, error)

	// FetchImage downloads the image bytes behind a metadata url field.
	// Root-relative urls are resolved against the service's canonical host.
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Store defines the interface for the filesystem-backed archive layer.
// An entry for a (day, region) pair is two sibling files; the image file's
// presence is the completeness signal, because it is written last.
type Store interface {
	// ExistsImage reports whether the image file for the entry is present.
	ExistsImage(root, day, region string) bool

	// ExistsMetadata reports whether the metadata file is present.
	// Metadata may exist without an image (a half-fetched entry).
	ExistsMetadata(root, day, region string) bool

	// ReadMetadata returns the raw JSON bytes persisted for the entry.
	ReadMetadata(root, day, region string) ([]byte, error)

	// WriteMetadata persists the raw metadata bytes, creating root lazily.
	WriteMetadata(root, day, region string, data []byte) error

	// WriteImage persists the raw image bytes, creating root lazily.
	WriteImage(root, day, region string, data []byte) error

	// ImagePath returns the path the image file lives at, written or not.
	ImagePath(root, day, region string) string
}

// Executor defines the interface for setting the desktop background.
type Executor interface {
	// SetWallpaper sets the desktop wallpaper to the image at imagePath.
	SetWallpaper(ctx context.Context, imagePath string) error
}

// Processor defines the interface for preparing an archived image for
// display, e.g. scaling it to the screen resolution.
type Processor interface {
	// Generate writes a display-ready variant of imgData to outputPath
	// and returns the path actually written.
	Generate(imgData []byte, outputPath string) (string, error)
}

// Config defines the interface for application runtime configuration.
type Config interface {
	// BackfillWindow returns the number of most-recent days one fetch
	// pass covers.
	BackfillWindow() int

	// FetchInterval returns how often the scheduler triggers a fetch pass.
	FetchInterval() time.Duration

	// SearchLimit bounds the nearest-available-day scan.
	SearchLimit() int
}
