//go:build linux

package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// WallpaperCommand represents a detected wallpaper setter command
type WallpaperCommand struct {
	Name   string
	Binary string
	Args   []string // %s will be replaced with image path
}

var (
	// Ordered list of wallpaper commands to try (highest priority first)
	wallpaperCommands = []WallpaperCommand{
		// Hyprland - swww (recommended)
		{Name: "swww", Binary: "swww", Args: []string{"img", "%s"}},
		// Hyprland - hyprpaper
		{Name: "hyprpaper", Binary: "hyprctl", Args: []string{"hyprpaper", "wallpaper", ",%s"}},
		// swaybg (Sway/Wayland)
		{Name: "swaybg", Binary: "swaybg", Args: []string{"-i", "%s", "-m", "fill"}},
		// GNOME; the picture-uri key is chosen per color scheme at set time
		{Name: "gnome", Binary: "gsettings", Args: []string{"set", "org.gnome.desktop.background", "picture-uri", "file://%s"}},
		// Generic X11 - feh
		{Name: "feh", Binary: "feh", Args: []string{"--bg-fill", "%s"}},
		// Generic X11 - nitrogen
		{Name: "nitrogen", Binary: "nitrogen", Args: []string{"--set-zoom-fill", "%s"}},
	}
)

// LinuxExecutor sets the desktop background on Linux systems. It picks a
// setter command once at startup; for GNOME it additionally consults the
// desktop portal's color scheme so dark-theme sessions get their wallpaper
// too (GNOME reads picture-uri-dark there, not picture-uri).
type LinuxExecutor struct {
	logger   *zap.Logger
	command  WallpaperCommand
	settings SettingsClient // nil when no portal is reachable
}

// NewExecutor creates a new platform-specific wallpaper executor (Linux implementation)
func NewExecutor(logger *zap.Logger) (*LinuxExecutor, error) {
	cmd := detectCommand(logger)
	if cmd.Binary == "" {
		return nil, fmt.Errorf("no supported wallpaper command found on this system")
	}

	logger.Info("wallpaper setter detected",
		zap.String("name", cmd.Name),
		zap.String("binary", cmd.Binary))

	e := &LinuxExecutor{logger: logger, command: cmd}

	if cmd.Name == "gnome" {
		settings, err := NewStdSettingsClient()
		if err != nil {
			logger.Warn("desktop portal unavailable, assuming light color scheme",
				zap.Error(err))
		} else {
			e.settings = settings
		}
	}

	return e, nil
}

// detectCommand analyzes the environment to choose the best wallpaper command
func detectCommand(logger *zap.Logger) WallpaperCommand {
	desktop := os.Getenv("XDG_CURRENT_DESKTOP")
	session := os.Getenv("XDG_SESSION_TYPE")
	wayland := os.Getenv("WAYLAND_DISPLAY")
	hyprland := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")

	logger.Debug("detecting wallpaper command",
		zap.String("desktop", desktop),
		zap.String("session", session),
		zap.String("wayland", wayland),
		zap.String("hyprland", hyprland))

	if hyprland != "" {
		for _, cmd := range wallpaperCommands {
			if (cmd.Name == "swww" || cmd.Name == "hyprpaper") && commandExists(cmd.Binary) {
				return cmd
			}
		}
	}

	if strings.Contains(strings.ToLower(desktop), "gnome") {
		for _, cmd := range wallpaperCommands {
			if cmd.Name == "gnome" && commandExists(cmd.Binary) {
				return cmd
			}
		}
	}

	if wayland != "" || session == "wayland" {
		for _, cmd := range wallpaperCommands {
			if (cmd.Name == "swww" || cmd.Name == "swaybg") && commandExists(cmd.Binary) {
				return cmd
			}
		}
	}

	// Fallback: try all commands in order
	for _, cmd := range wallpaperCommands {
		if commandExists(cmd.Binary) {
			logger.Info("using fallback wallpaper command", zap.String("name", cmd.Name))
			return cmd
		}
	}

	return WallpaperCommand{} // No command found
}

// commandExists checks if a binary exists in PATH
func commandExists(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

// SetWallpaper sets the desktop wallpaper to the specified image
func (e *LinuxExecutor) SetWallpaper(ctx context.Context, imagePath string) error {
	args := buildArgs(e.command.Args, imagePath)

	if e.command.Name == "gnome" && e.prefersDark() {
		args = replaceKey(args, "picture-uri", "picture-uri-dark")
	}

	e.logger.Debug("setting wallpaper",
		zap.String("command", e.command.Binary),
		zap.Strings("args", args),
		zap.String("path", imagePath))

	cmd := exec.CommandContext(ctx, e.command.Binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to set wallpaper with %s: %w (output: %s)",
			e.command.Name, err, string(output))
	}

	e.logger.Info("wallpaper set",
		zap.String("command", e.command.Name),
		zap.String("path", imagePath))
	return nil
}

// prefersDark asks the desktop portal for the session color scheme.
func (e *LinuxExecutor) prefersDark() bool {
	if e.settings == nil {
		return false
	}
	scheme, err := e.settings.ColorScheme()
	if err != nil {
		e.logger.Debug("color scheme query failed", zap.Error(err))
		return false
	}
	return scheme == colorSchemeDark
}

func buildArgs(template []string, imagePath string) []string {
	args := make([]string, len(template))
	for i, arg := range template {
		args[i] = strings.ReplaceAll(arg, "%s", imagePath)
	}
	return args
}

func replaceKey(args []string, from, to string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if arg == from {
			out[i] = to
		} else {
			out[i] = arg
		}
	}
	return out
}
