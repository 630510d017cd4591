package config

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewAppConfigDefaults(t *testing.T) {
	cfg, err := NewAppConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackfillWindow() != 10 {
		t.Errorf("BackfillWindow = %d, want 10", cfg.BackfillWindow())
	}
	if cfg.FetchInterval() != time.Hour {
		t.Errorf("FetchInterval = %v, want 1h", cfg.FetchInterval())
	}
	if cfg.SearchLimit() != 365 {
		t.Errorf("SearchLimit = %d, want 365", cfg.SearchLimit())
	}
}

func TestNewAppConfigFromEnv(t *testing.T) {
	t.Setenv("BINGWALL_BACKFILL_WINDOW", "7")
	t.Setenv("BINGWALL_FETCH_INTERVAL", "30m")
	t.Setenv("BINGWALL_SEARCH_LIMIT", "30")

	cfg, err := NewAppConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackfillWindow() != 7 {
		t.Errorf("BackfillWindow = %d, want 7", cfg.BackfillWindow())
	}
	if cfg.FetchInterval() != 30*time.Minute {
		t.Errorf("FetchInterval = %v, want 30m", cfg.FetchInterval())
	}
	if cfg.SearchLimit() != 30 {
		t.Errorf("SearchLimit = %d, want 30", cfg.SearchLimit())
	}
}

func TestNewAppConfigRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "window too large", key: "BINGWALL_BACKFILL_WINDOW", value: "50"},
		{name: "interval too short", key: "BINGWALL_FETCH_INTERVAL", value: "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := NewAppConfig(zap.NewNop()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewAppConfigIgnoresGarbageEnv(t *testing.T) {
	t.Setenv("BINGWALL_BACKFILL_WINDOW", "many")
	t.Setenv("BINGWALL_FETCH_INTERVAL", "soon")

	cfg, err := NewAppConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackfillWindow() != 10 || cfg.FetchInterval() != time.Hour {
		t.Error("unparseable env values should fall back to defaults")
	}
}
