package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/booking")
	t.Setenv("ENV", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("HOLD_TTL", "")
	t.Setenv("SWEEP_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.HoldTTL != 15*time.Minute {
		t.Errorf("HoldTTL = %v, want 15m", cfg.HoldTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %v, want 1m", cfg.SweepInterval)
	}
}

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error when DB_DSN is missing")
	}
}

func TestLoad_InvalidDurations(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/booking")

	t.Setenv("HOLD_TTL", "banana")
	if _, err := Load(); err == nil {
		t.Error("Load() = nil, want error for unparsable HOLD_TTL")
	}

	t.Setenv("HOLD_TTL", "500ms")
	if _, err := Load(); err == nil {
		t.Error("Load() = nil, want error for sub-second HOLD_TTL")
	}

	t.Setenv("HOLD_TTL", "10m")
	t.Setenv("SWEEP_INTERVAL", "30s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.HoldTTL != 10*time.Minute || cfg.SweepInterval != 30*time.Second {
		t.Errorf("durations = %v/%v, want 10m/30s", cfg.HoldTTL, cfg.SweepInterval)
	}
}
