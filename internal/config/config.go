package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"highpitch/internal/filler"

	"gopkg.in/yaml.v3"
)

// Config holds all highpitch configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Practice session storage
	Store StoreConfig `yaml:"store"`

	// Filler word chart geometry and export
	Chart ChartConfig `yaml:"chart"`

	// Onboarding tour
	Onboarding OnboardingConfig `yaml:"onboarding"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Session file inbox
	Inbox InboxConfig `yaml:"inbox"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the SQLite session store.
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite (pure Go), sqlite3 (cgo)
	Path   string `yaml:"path"`
}

// ChartConfig configures the usage donut chart.
type ChartConfig struct {
	MaxHeight       float64 `yaml:"max_height"`
	BreakpointWidth float64 `yaml:"breakpoint_width"`
	NarrowRatio     float64 `yaml:"narrow_ratio"`
	WideRatio       float64 `yaml:"wide_ratio"`
	WideScale       float64 `yaml:"wide_scale"`
	InnerRatio      float64 `yaml:"inner_ratio"`
	OuterRatio      float64 `yaml:"outer_ratio"`

	// FontPath points at a TTF used for exported labels. Hangul needs one;
	// the built-in font only covers Latin.
	FontPath   string `yaml:"font_path,omitempty"`
	ExportSize int    `yaml:"export_size"`
}

// OnboardingConfig configures the onboarding tour.
type OnboardingConfig struct {
	BaselineSPM float64 `yaml:"baseline_spm"`
}

// InboxConfig configures where the transcription pipeline drops sessions.
type InboxConfig struct {
	Dir      string `yaml:"dir"`
	Debounce string `yaml:"debounce"`
}

// ValidDrivers lists the supported database/sql driver names.
var ValidDrivers = []string{"sqlite", "sqlite3"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "highpitch",
		Version: "1.0.0",

		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "sessions.db",
		},

		Chart: ChartConfig{
			MaxHeight:       212,
			BreakpointWidth: 500,
			NarrowRatio:     0.5,
			WideRatio:       0.45,
			WideScale:       0.6,
			InnerRatio:      0.618,
			OuterRatio:      0.8,
			ExportSize:      512,
		},

		Onboarding: OnboardingConfig{
			BaselineSPM: 356.7,
		},

		UI: *DefaultUIConfig(),

		Inbox: InboxConfig{
			Dir:      "inbox",
			Debounce: "500ms",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns .highpitch/config.yaml under workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".highpitch", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("HIGHPITCH_DB"); path != "" {
		c.Store.Path = path
	}
	if driver := os.Getenv("HIGHPITCH_DB_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
	if theme := os.Getenv("HIGHPITCH_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if dir := os.Getenv("HIGHPITCH_INBOX"); dir != "" {
		c.Inbox.Dir = dir
	}
	if os.Getenv("HIGHPITCH_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validDriver := false
	for _, d := range ValidDrivers {
		if c.Store.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid store driver: %s (valid: %v)", c.Store.Driver, ValidDrivers)
	}
	if c.Chart.MaxHeight <= 0 {
		return fmt.Errorf("chart.max_height must be positive, got %v", c.Chart.MaxHeight)
	}
	if c.Chart.InnerRatio <= 0 || c.Chart.OuterRatio <= c.Chart.InnerRatio || c.Chart.OuterRatio > 1 {
		return fmt.Errorf("chart ring ratios must satisfy 0 < inner < outer <= 1, got %v/%v",
			c.Chart.InnerRatio, c.Chart.OuterRatio)
	}
	if c.Onboarding.BaselineSPM <= 0 {
		return fmt.Errorf("onboarding.baseline_spm must be positive, got %v", c.Onboarding.BaselineSPM)
	}
	return nil
}

// ResolvePath makes p absolute relative to the workspace's .highpitch dir.
func ResolvePath(workspace, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, ".highpitch", p)
}

// GetInboxDebounce returns the inbox debounce as a duration.
func (c *Config) GetInboxDebounce() time.Duration {
	d, err := time.ParseDuration(c.Inbox.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// GetResizeDebounce returns the UI resize debounce as a duration.
func (c *Config) GetResizeDebounce() time.Duration {
	d, err := time.ParseDuration(c.UI.ResizeDebounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// Layout converts the chart settings into filler chart geometry.
func (c ChartConfig) Layout() filler.Layout {
	l := filler.DefaultLayout()
	if c.MaxHeight > 0 {
		l.MaxHeight = c.MaxHeight
	}
	if c.BreakpointWidth > 0 {
		l.BreakpointWidth = c.BreakpointWidth
	}
	if c.NarrowRatio > 0 {
		l.NarrowRatio = c.NarrowRatio
	}
	if c.WideRatio > 0 {
		l.WideRatio = c.WideRatio
	}
	if c.WideScale > 0 {
		l.WideScale = c.WideScale
	}
	return l
}
