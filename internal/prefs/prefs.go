// Package prefs persists user-facing settings: where the archive lives,
// which market region to fetch, the automation toggles and the currently
// selected day. Settings are an explicit dependency injected into callers,
// never read from process-global state.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Settings is the on-disk shape of the preference file. Every key has a
// documented fallback; an absent file means all defaults.
type Settings struct {
	// StoragePath is the archive root. Default: ~/Pictures/Bing Wallpaper.
	StoragePath string `yaml:"storage_path"`
	// Region is the market code sent to the service; empty means the
	// default, unqualified market.
	Region string `yaml:"region"`
	// AutoDownload enables the periodic backfill pass. Default: true.
	AutoDownload bool `yaml:"auto_download"`
	// AutoChangeWallpaper makes each backfill pass also jump the desktop
	// to today's image. Default: false.
	AutoChangeWallpaper bool `yaml:"auto_change_wallpaper"`
	// FitToScreen scales images to the screen resolution before setting
	// them. Default: false.
	FitToScreen bool `yaml:"fit_to_screen"`
	// CurrentDate is the day key the desktop currently shows, persisted
	// across restarts. Empty means none selected yet.
	CurrentDate string `yaml:"current_date"`
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.StoragePath, validation.Required),
		validation.Field(&s.Region, validation.By(validRegion)),
	)
}

func validRegion(value interface{}) error {
	code, _ := value.(string)
	if code == "" {
		return nil
	}
	for _, known := range Regions {
		if code == known {
			return nil
		}
	}
	return fmt.Errorf("unknown region code %q", code)
}

// Store owns the preference file. It is safe for concurrent readers and the
// single watcher goroutine that reloads it.
type Store struct {
	logger *zap.Logger
	path   string

	mu sync.RWMutex
	s  Settings
}

// DefaultPath returns the preference file location, preferring
// XDG_CONFIG_HOME and falling back to ~/.config.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "bingwall", "prefs.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "bingwall", "prefs.yaml"), nil
}

// defaultSettings returns the documented fallbacks.
func defaultSettings() (Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("resolving home directory: %w", err)
	}
	return Settings{
		StoragePath:  filepath.Join(home, "Pictures", "Bing Wallpaper"),
		AutoDownload: true,
	}, nil
}

// NewStore opens the preference store at path (empty = DefaultPath). A
// missing file is not an error; defaults apply until the first Save.
func NewStore(logger *zap.Logger, path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	st := &Store{logger: logger, path: path}
	if err := st.load(); err != nil {
		return nil, err
	}

	logger.Info("preferences loaded",
		zap.String("path", path),
		zap.String("storagePath", st.StoragePath()),
		zap.String("region", st.Region()))
	return st, nil
}

// Path returns the preference file location.
func (st *Store) Path() string { return st.path }

func (st *Store) load() error {
	s, err := defaultSettings()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(st.path)
	switch {
	case os.IsNotExist(err):
		// Fall through with defaults.
	case err != nil:
		return fmt.Errorf("reading preferences %s: %w", st.path, err)
	default:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parsing preferences %s: %w", st.path, err)
		}
	}

	if s.StoragePath == "" {
		d, derr := defaultSettings()
		if derr != nil {
			return derr
		}
		s.StoragePath = d.StoragePath
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid preferences %s: %w", st.path, err)
	}

	st.mu.Lock()
	st.s = s
	st.mu.Unlock()
	return nil
}

// Reload re-reads the preference file, keeping the current settings when
// the file has become unreadable or invalid.
func (st *Store) Reload() error {
	return st.load()
}

// Save writes the current settings atomically.
func (st *Store) Save() error {
	st.mu.RLock()
	s := st.s
	st.mu.RUnlock()

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, st.path); err != nil {
		return fmt.Errorf("renaming preferences into place: %w", err)
	}
	tmpPath = ""
	return nil
}

// StoragePath returns the archive root directory.
func (st *Store) StoragePath() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.StoragePath
}

// Region returns the configured market region code.
func (st *Store) Region() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Region
}

// AutoDownload reports whether the periodic backfill pass is enabled.
func (st *Store) AutoDownload() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.AutoDownload
}

// AutoChangeWallpaper reports whether each backfill pass also advances the
// desktop to today's image.
func (st *Store) AutoChangeWallpaper() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.AutoChangeWallpaper
}

// FitToScreen reports whether images are scaled to the screen before being
// set.
func (st *Store) FitToScreen() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.FitToScreen
}

// CurrentDate returns the persisted currently-selected day key, or "".
func (st *Store) CurrentDate() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.CurrentDate
}

// SetCurrentDate persists the currently-selected day key.
func (st *Store) SetCurrentDate(day string) error {
	st.mu.Lock()
	st.s.CurrentDate = day
	st.mu.Unlock()
	return st.Save()
}
