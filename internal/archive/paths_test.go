package archive

import (
	"path/filepath"
	"testing"
)

func TestEntryPaths(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		day      string
		region   string
		wantMeta string
		wantImg  string
	}{
		{
			name:     "default region omits suffix",
			root:     "/data",
			day:      "2024-01-01",
			region:   "",
			wantMeta: filepath.Join("/data", "2024-01-01.json"),
			wantImg:  filepath.Join("/data", "2024-01-01.jpg"),
		},
		{
			name:     "region suffix",
			root:     "/data",
			day:      "2024-01-01",
			region:   "US",
			wantMeta: filepath.Join("/data", "2024-01-01_US.json"),
			wantImg:  filepath.Join("/data", "2024-01-01_US.jpg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MetadataPath(tt.root, tt.day, tt.region); got != tt.wantMeta {
				t.Errorf("MetadataPath = %q, want %q", got, tt.wantMeta)
			}
			if got := ImagePath(tt.root, tt.day, tt.region); got != tt.wantImg {
				t.Errorf("ImagePath = %q, want %q", got, tt.wantImg)
			}
		})
	}
}

func TestPathsAreDeterministicAndDistinct(t *testing.T) {
	// Pure functions: calling twice yields identical paths.
	if ImagePath("/r", "2024-01-01", "US") != ImagePath("/r", "2024-01-01", "US") {
		t.Error("ImagePath is not deterministic")
	}

	// Varying only the region yields distinct storage slots.
	if ImagePath("/r", "2024-01-01", "") == ImagePath("/r", "2024-01-01", "US") {
		t.Error("default and region-qualified image paths collide")
	}
	if MetadataPath("/r", "2024-01-01", "") == MetadataPath("/r", "2024-01-01", "US") {
		t.Error("default and region-qualified metadata paths collide")
	}

	// The fitted derivative never collides with the entry's own files.
	if FittedPath("/r", "2024-01-01", "") == ImagePath("/r", "2024-01-01", "") {
		t.Error("fitted path collides with image path")
	}
	if FittedPath("/r", "2024-01-01", "US") == ImagePath("/r", "2024-01-01", "US") {
		t.Error("region-qualified fitted path collides with image path")
	}
}
