package archive

import (
	"fmt"
	"path/filepath"
)

// Path construction is deterministic and side-effect free. The empty region
// omits the suffix entirely, so region-qualified and default entries for the
// same day occupy distinct storage slots.

// MetadataPath returns the metadata file path for a (day, region) entry.
func MetadataPath(root, day, region string) string {
	return entryPath(root, day, region, "json")
}

// ImagePath returns the image file path for a (day, region) entry.
func ImagePath(root, day, region string) string {
	return entryPath(root, day, region, "jpg")
}

// FittedPath returns the path of the fit-to-screen derivative for an entry.
// The derivative is display plumbing, not part of the entry itself: its
// presence never counts toward completeness.
func FittedPath(root, day, region string) string {
	if region == "" {
		return filepath.Join(root, fmt.Sprintf("%s_fit.jpg", day))
	}
	return filepath.Join(root, fmt.Sprintf("%s_%s_fit.jpg", day, region))
}

func entryPath(root, day, region, ext string) string {
	if region == "" {
		return filepath.Join(root, fmt.Sprintf("%s.%s", day, ext))
	}
	return filepath.Join(root, fmt.Sprintf("%s_%s.%s", day, region, ext))
}
