//go:build darwin

package executor

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// DarwinExecutor sets the desktop background on macOS through System
// Events, which applies the picture to every desktop.
type DarwinExecutor struct {
	logger *zap.Logger
}

// NewExecutor creates a new platform-specific wallpaper executor (macOS implementation)
func NewExecutor(logger *zap.Logger) (*DarwinExecutor, error) {
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil, fmt.Errorf("osascript not found: %w", err)
	}
	return &DarwinExecutor{logger: logger}, nil
}

// SetWallpaper sets the desktop wallpaper to the specified image
func (e *DarwinExecutor) SetWallpaper(ctx context.Context, imagePath string) error {
	script := fmt.Sprintf(
		`tell application "System Events" to tell every desktop to set picture to %q`,
		imagePath)

	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to set wallpaper: %w (output: %s)", err, string(output))
	}

	e.logger.Info("wallpaper set", zap.String("path", imagePath))
	return nil
}
