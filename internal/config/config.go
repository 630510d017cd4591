// Package config loads runtime configuration from the environment. User
// preferences (storage path, region, toggles) live in the prefs package;
// this covers the knobs an operator sets once per deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/lochfern/bingwall/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultBackfillWindow = 10
	defaultFetchInterval  = time.Hour
	defaultSearchLimit    = 365
)

// Compile-time check that AppConfig implements domain.Config.
var _ domain.Config = (*AppConfig)(nil)

// AppConfig holds application configuration.
type AppConfig struct {
	PrefsPath string
	Window    int
	Interval  time.Duration
	Limit     int
}

// NewAppConfig reads configuration from environment variables, falling back
// to defaults, and validates the result.
func NewAppConfig(logger *zap.Logger) (*AppConfig, error) {
	cfg := &AppConfig{
		PrefsPath: os.Getenv("BINGWALL_PREFS_PATH"),
		Window:    getEnvInt("BINGWALL_BACKFILL_WINDOW", defaultBackfillWindow),
		Interval:  getEnvDuration("BINGWALL_FETCH_INTERVAL", defaultFetchInterval),
		Limit:     getEnvInt("BINGWALL_SEARCH_LIMIT", defaultSearchLimit),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("configuration loaded",
		zap.Int("backfillWindow", cfg.Window),
		zap.Duration("fetchInterval", cfg.Interval),
		zap.Int("searchLimit", cfg.Limit))

	return cfg, nil
}

// Validate checks the configuration bounds.
func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Window, validation.Required, validation.Min(1), validation.Max(16)),
		validation.Field(&c.Interval, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.Limit, validation.Required, validation.Min(1)),
	)
}

// BackfillWindow returns the number of most-recent days one fetch pass covers.
func (c *AppConfig) BackfillWindow() int { return c.Window }

// FetchInterval returns how often the scheduler triggers a fetch pass.
func (c *AppConfig) FetchInterval() time.Duration { return c.Interval }

// SearchLimit bounds the nearest-available-day scan.
func (c *AppConfig) SearchLimit() int { return c.Limit }

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
