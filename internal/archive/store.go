package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lochfern/bingwall/internal/domain"
	"go.uber.org/zap"
)

// Compile-time check that FSStore implements domain.Store.
var _ domain.Store = (*FSStore)(nil)

// FSStore persists archive entries as pairs of files under a caller-supplied
// root directory. Writes are atomic (temp file + rename), so a half-written
// file is never visible at its final path; the root is created lazily on the
// first write, never during read-only checks.
type FSStore struct {
	logger *zap.Logger
}

// NewFSStore creates a filesystem-backed archive store.
func NewFSStore(logger *zap.Logger) *FSStore {
	return &FSStore{logger: logger}
}

// ExistsImage reports whether the image file for the entry is present.
// Image presence is the completeness signal for the whole entry.
func (s *FSStore) ExistsImage(root, day, region string) bool {
	return fileExists(ImagePath(root, day, region))
}

// ExistsMetadata reports whether the metadata file for the entry is present.
func (s *FSStore) ExistsMetadata(root, day, region string) bool {
	return fileExists(MetadataPath(root, day, region))
}

// ReadMetadata returns the raw metadata bytes for the entry.
func (s *FSStore) ReadMetadata(root, day, region string) ([]byte, error) {
	path := MetadataPath(root, day, region)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading metadata %s: %w", path, err)
	}
	return data, nil
}

// WriteMetadata persists the raw metadata bytes for the entry.
func (s *FSStore) WriteMetadata(root, day, region string, data []byte) error {
	return s.writeAtomic(root, MetadataPath(root, day, region), data)
}

// WriteImage persists the raw image bytes for the entry.
func (s *FSStore) WriteImage(root, day, region string, data []byte) error {
	return s.writeAtomic(root, ImagePath(root, day, region), data)
}

// ImagePath returns the path the entry's image file lives at.
func (s *FSStore) ImagePath(root, day, region string) string {
	return ImagePath(root, day, region)
}

// writeAtomic writes data to a temp file in root and renames it into place.
// MkdirAll is idempotent, so concurrent-free repeated writes are safe.
func (s *FSStore) writeAtomic(root, dst string, data []byte) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", root, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".bingwall-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}

	// Rename succeeded; prevent deferred cleanup from removing the final file.
	tmpPath = ""

	s.logger.Debug("archive file written",
		zap.String("path", dst),
		zap.Int("bytes", len(data)))
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
