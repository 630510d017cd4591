// Package processor prepares archived wallpapers for display.
package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // some markets serve PNG
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/lochfern/bingwall/internal/domain"
	"go.uber.org/zap"
)

const jpegQuality = 90

// Compile-time check that FitProcessor implements domain.Processor.
var _ domain.Processor = (*FitProcessor)(nil)

// FitProcessor scales an archived image to cover the screen resolution,
// cropping centered, so the desktop never letterboxes it.
type FitProcessor struct {
	logger *zap.Logger
	res    *domain.ScreenResolution
}

// NewFitProcessor creates a fit-to-screen processor for the given resolution.
func NewFitProcessor(logger *zap.Logger, res *domain.ScreenResolution) *FitProcessor {
	return &FitProcessor{logger: logger, res: res}
}

// Generate writes a screen-fitted JPEG variant of imgData to outputPath and
// returns the path written. The write goes through a temp file + rename so a
// partially encoded variant is never visible.
func (p *FitProcessor) Generate(imgData []byte, outputPath string) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	fitted := imaging.Fill(img, p.res.Width, p.res.Height, imaging.Center, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, fitted, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encoding fitted image: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".fit-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing fitted image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", fmt.Errorf("renaming fitted image: %w", err)
	}
	tmpPath = ""

	p.logger.Debug("fitted image written",
		zap.String("path", outputPath),
		zap.Int("w", p.res.Width),
		zap.Int("h", p.res.Height),
		zap.Int("bytes", buf.Len()))
	return outputPath, nil
}
