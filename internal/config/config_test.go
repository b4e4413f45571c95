package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Engine.SnapMultiplier != 0.65 || cfg.Engine.PixelsPerUnit != 100 {
		t.Fatalf("defaults not applied: %+v", cfg.Engine)
	}
}

func TestLoad_OverridesAndDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jigsaw.yaml")
	body := `
engine:
  spacing: 0.05
  snap_multiplier: 0.9
  animate_shuffle: false
  shuffle_duration: 2s
progress:
  driver: memory
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.Spacing != 0.05 || cfg.Engine.SnapMultiplier != 0.9 || cfg.Engine.AnimateShuffle {
		t.Fatalf("overrides not applied: %+v", cfg.Engine)
	}
	if cfg.Engine.ShuffleDuration != 2*time.Second {
		t.Fatalf("expected 2s shuffle, got %v", cfg.Engine.ShuffleDuration)
	}
	if cfg.Engine.InitialDelay != 2*time.Second {
		t.Fatalf("unset keys should keep defaults, got initial delay %v", cfg.Engine.InitialDelay)
	}
	if cfg.Progress.Driver != "memory" {
		t.Fatalf("expected memory driver, got %q", cfg.Progress.Driver)
	}
}

func TestValidate_ClampsSnapMultiplier(t *testing.T) {
	for _, m := range []float64{0.2, 0.4, 1.5} {
		cfg := Default()
		cfg.Engine.SnapMultiplier = m
		if err := cfg.Validate(); err != nil {
			t.Fatalf("multiplier %v: unexpected error %v", m, err)
		}
		if cfg.Engine.SnapMultiplier != 0.65 {
			t.Fatalf("multiplier %v should reset to 0.65, got %v", m, cfg.Engine.SnapMultiplier)
		}
	}
	cfg := Default()
	cfg.Engine.SnapMultiplier = 1.0
	_ = cfg.Validate()
	if cfg.Engine.SnapMultiplier != 1.0 {
		t.Fatalf("1.0 is in range, got %v", cfg.Engine.SnapMultiplier)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg := Default()
	cfg.Engine.PixelsPerUnit = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero pixels per unit")
	}
	cfg = Default()
	cfg.Progress.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
