//go:build windows

package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"syscall"
	"unsafe"

	"go.uber.org/zap"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateINIFile   = 0x01
	spifSendChange      = 0x02
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	procSystemParamInfoW = user32.NewProc("SystemParametersInfoW")
)

// WindowsExecutor sets the desktop background through the Win32 API.
type WindowsExecutor struct {
	logger *zap.Logger
}

// NewExecutor creates a new platform-specific wallpaper executor (Windows implementation)
func NewExecutor(logger *zap.Logger) (*WindowsExecutor, error) {
	return &WindowsExecutor{logger: logger}, nil
}

// SetWallpaper sets the desktop wallpaper using SystemParametersInfoW
func (e *WindowsExecutor) SetWallpaper(ctx context.Context, imagePath string) error {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return fmt.Errorf("resolving wallpaper path: %w", err)
	}

	ptr, err := syscall.UTF16PtrFromString(abs)
	if err != nil {
		return fmt.Errorf("encoding wallpaper path: %w", err)
	}

	ret, _, callErr := procSystemParamInfoW.Call(
		uintptr(spiSetDeskWallpaper),
		0,
		uintptr(unsafe.Pointer(ptr)),
		uintptr(spifUpdateINIFile|spifSendChange),
	)
	if ret == 0 {
		return fmt.Errorf("SystemParametersInfoW failed: %w", callErr)
	}

	e.logger.Info("wallpaper set", zap.String("path", abs))
	return nil
}
