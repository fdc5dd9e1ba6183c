package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/gridfield/internal/field"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	// Grid surface inset from the window edges
	SurfaceMargin = 32

	// Glow parameters
	GlowLegSeconds = 1.2
	GlowFillAlpha  = 0.35

	// Border palette (hex)
	BaseColor      = "#1e2a3a"
	HighlightColor = "#5fd7ff"
	GlowColor      = "#b388ff"

	DefaultColumns = 40
	DefaultRows    = 20

	DefaultSearchTimeout = 15 * time.Second
	DefaultSearchLimit   = 10
)

// Config is the on-disk configuration for gridfield.
type Config struct {
	Grid      field.GridSpec  `yaml:"grid"`
	Animation AnimationConfig `yaml:"animation"`
	Window    WindowConfig    `yaml:"window"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AnimationConfig selects how the glowing subset is drawn.
type AnimationConfig struct {
	Mode         string  `yaml:"mode"` // stable, reroll
	Chance       float64 `yaml:"chance"`
	MaxDelay     float64 `yaml:"max_delay"`
	FrameAligned bool    `yaml:"frame_aligned"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type SearchConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Limit   int           `yaml:"limit"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
	// File receives log output instead of stderr when set. The terminal
	// front end needs one because it owns the tty.
	File string `yaml:"file"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Grid: field.GridSpec{Columns: DefaultColumns, Rows: DefaultRows},
		Animation: AnimationConfig{
			Mode:     string(field.AnimationStable),
			Chance:   field.DefaultAnimationChance,
			MaxDelay: field.DefaultMaxAnimationDelay,
		},
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "gridfield - move the pointer over the grid, Space: pause glow, Esc/Q: quit",
		},
		Search: SearchConfig{
			BaseURL: "http://localhost:8080",
			Timeout: DefaultSearchTimeout,
			Limit:   DefaultSearchLimit,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config on top of the defaults. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GRIDFIELD_SEARCH_URL"); v != "" {
		c.Search.BaseURL = v
	}
	if v := os.Getenv("GRIDFIELD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the values a front end cannot work without.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	if _, err := field.ParseAnimationMode(c.Animation.Mode); err != nil {
		return fmt.Errorf("invalid animation: %w", err)
	}
	if c.Animation.Chance < 0 || c.Animation.Chance > 1 {
		return fmt.Errorf("invalid animation: chance %v outside [0,1]", c.Animation.Chance)
	}
	if c.Animation.MaxDelay < 0 {
		return fmt.Errorf("invalid animation: negative max_delay %v", c.Animation.MaxDelay)
	}
	if c.Window.Width <= 2*SurfaceMargin || c.Window.Height <= 2*SurfaceMargin {
		return fmt.Errorf("invalid window: %dx%d too small", c.Window.Width, c.Window.Height)
	}
	return nil
}

// FieldOptions translates the animation section into field options.
func (c *Config) FieldOptions() field.Options {
	mode, _ := field.ParseAnimationMode(c.Animation.Mode)
	return field.Options{
		Mode: mode,
		Params: &field.AnimationParams{
			Chance:   c.Animation.Chance,
			MaxDelay: c.Animation.MaxDelay,
		},
		FrameAligned: c.Animation.FrameAligned,
	}
}
