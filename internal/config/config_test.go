package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "highpitch" {
		t.Errorf("expected Name=highpitch, got %s", cfg.Name)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected Driver=sqlite, got %s", cfg.Store.Driver)
	}
	if cfg.Onboarding.BaselineSPM != 356.7 {
		t.Errorf("expected BaselineSPM=356.7, got %v", cfg.Onboarding.BaselineSPM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("HIGHPITCH_DB", "")
	t.Setenv("HIGHPITCH_DB_DRIVER", "")

	path := filepath.Join(t.TempDir(), ".highpitch", "config.yaml")

	cfg := DefaultConfig()
	cfg.Store.Driver = "sqlite3"
	cfg.Chart.FontPath = "/fonts/NanumGothic.ttf"
	cfg.Logging.Categories = map[string]bool{"ui": false}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Store.Driver != "sqlite3" {
		t.Errorf("expected Driver=sqlite3, got %s", loaded.Store.Driver)
	}
	if loaded.Chart.FontPath != "/fonts/NanumGothic.ttf" {
		t.Errorf("expected FontPath persisted, got %q", loaded.Chart.FontPath)
	}
	if loaded.Logging.IsCategoryEnabled("ui") {
		t.Errorf("ui category should be disabled (debug mode off)")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Chart.MaxHeight != 212 {
		t.Errorf("expected default MaxHeight, got %v", cfg.Chart.MaxHeight)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chart:\n  breakpoint_width: 640\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Chart.BreakpointWidth != 640 {
		t.Errorf("expected BreakpointWidth=640, got %v", cfg.Chart.BreakpointWidth)
	}
	if cfg.Chart.NarrowRatio != 0.5 {
		t.Errorf("expected default NarrowRatio kept, got %v", cfg.Chart.NarrowRatio)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chart: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid driver error")
	}

	cfg = DefaultConfig()
	cfg.Chart.InnerRatio = 0.9
	if err := cfg.Validate(); err == nil {
		t.Error("expected ring ratio error")
	}

	cfg = DefaultConfig()
	cfg.Chart.InnerRatio = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for a chart without a hole")
	}

	cfg = DefaultConfig()
	cfg.Onboarding.BaselineSPM = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected baseline error")
	}
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetInboxDebounce(); got != 500*time.Millisecond {
		t.Errorf("inbox debounce = %v", got)
	}
	cfg.UI.ResizeDebounce = "garbage"
	if got := cfg.GetResizeDebounce(); got != 300*time.Millisecond {
		t.Errorf("resize debounce fallback = %v", got)
	}
}

func TestChartLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chart.BreakpointWidth = 640
	cfg.Chart.WideScale = 0
	l := cfg.Chart.Layout()
	if l.BreakpointWidth != 640 {
		t.Errorf("BreakpointWidth = %v", l.BreakpointWidth)
	}
	if l.WideScale != 0.6 {
		t.Errorf("zero WideScale should fall back to default, got %v", l.WideScale)
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/ws", "sessions.db"); got != filepath.Join("/ws", ".highpitch", "sessions.db") {
		t.Errorf("ResolvePath relative = %s", got)
	}
	if got := ResolvePath("/ws", "/abs/x.db"); got != "/abs/x.db" {
		t.Errorf("ResolvePath absolute = %s", got)
	}
}
