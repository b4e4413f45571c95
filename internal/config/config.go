// Package config loads the application settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML settings file.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Engine   EngineConfig   `yaml:"engine"`
	Progress ProgressConfig `yaml:"progress"`
	Log      LogConfig      `yaml:"log"`
	Chapters string         `yaml:"chapters"` // manifest path; empty uses the built-in chapter
	Sound    bool           `yaml:"sound"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// EngineConfig mirrors the assembly engine's tunables.
type EngineConfig struct {
	Spacing            float64       `yaml:"spacing"`
	PixelsPerUnit      float64       `yaml:"pixels_per_unit"`
	SnapMultiplier     float64       `yaml:"snap_multiplier"`
	AnimateShuffle     bool          `yaml:"animate_shuffle"`
	InitialDelay       time.Duration `yaml:"initial_delay"`
	SettleDelay        time.Duration `yaml:"settle_delay"`
	ShuffleDuration    time.Duration `yaml:"shuffle_duration"`
	ShuffleJitter      time.Duration `yaml:"shuffle_jitter"`
	MinShuffleDuration time.Duration `yaml:"min_shuffle_duration"`
}

type ProgressConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "memory"
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // "dev" or "prod"
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 900, Title: "Jigsaw"},
		Engine: EngineConfig{
			Spacing:            0.02,
			PixelsPerUnit:      100,
			SnapMultiplier:     0.65,
			AnimateShuffle:     true,
			InitialDelay:       2 * time.Second,
			SettleDelay:        300 * time.Millisecond,
			ShuffleDuration:    1500 * time.Millisecond,
			ShuffleJitter:      300 * time.Millisecond,
			MinShuffleDuration: 500 * time.Millisecond,
		},
		Progress: ProgressConfig{Driver: "sqlite", Path: "progress.db"},
		Log:      LogConfig{Mode: "dev"},
		Sound:    true,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate clamps soft values and rejects unusable ones.
func (c *Config) Validate() error {
	e := &c.Engine
	if e.PixelsPerUnit <= 0 {
		return fmt.Errorf("engine.pixels_per_unit must be > 0, got %v", e.PixelsPerUnit)
	}
	if e.Spacing < 0 {
		return fmt.Errorf("engine.spacing must be >= 0, got %v", e.Spacing)
	}
	if e.SnapMultiplier <= 0.4 || e.SnapMultiplier > 1 {
		e.SnapMultiplier = Default().Engine.SnapMultiplier
	}
	if e.MinShuffleDuration <= 0 {
		e.MinShuffleDuration = Default().Engine.MinShuffleDuration
	}
	if e.InitialDelay < 0 {
		e.InitialDelay = 0
	}
	if e.SettleDelay < 0 {
		e.SettleDelay = 0
	}
	if e.ShuffleJitter < 0 {
		e.ShuffleJitter = 0
	}

	switch strings.ToLower(c.Progress.Driver) {
	case "sqlite", "memory":
		c.Progress.Driver = strings.ToLower(c.Progress.Driver)
	case "":
		c.Progress.Driver = "memory"
	default:
		return fmt.Errorf("progress.driver %q not supported (sqlite, memory)", c.Progress.Driver)
	}
	if c.Progress.Driver == "sqlite" && strings.TrimSpace(c.Progress.Path) == "" {
		c.Progress.Path = Default().Progress.Path
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = Default().Window.Width, Default().Window.Height
	}
	if c.Window.Title == "" {
		c.Window.Title = Default().Window.Title
	}
	return nil
}
