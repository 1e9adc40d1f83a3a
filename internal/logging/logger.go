// Package logging provides config-driven categorized file logging for highpitch.
// Logs are written to .highpitch/logs/ with one file per category.
// Logging is controlled by logging.debug_mode in .highpitch/config.yaml - when
// false, no log files are created and every logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config resolution
	CategorySession    Category = "session"    // Practice session lifecycle
	CategoryStore      Category = "store"      // SQLite session store
	CategoryChart      Category = "chart"      // Bucketing, label placement, export
	CategoryOnboarding Category = "onboarding" // Onboarding tour transitions
	CategoryInbox      Category = "inbox"      // Session file import and watcher
	CategoryUI         Category = "ui"         // Terminal UI events
)

// loggingConfig mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports
type loggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	Format     string          `yaml:"format"` // json, console
}

// configFile structure for reading .highpitch/config.yaml
type configFile struct {
	Logging loggingConfig `yaml:"logging"`
}

// Logger is a category logger. The zero value discards everything.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex

	// configMu guards everything below.
	configMu sync.RWMutex
	logsDir  string
	config   loggingConfig
	level    = zapcore.InfoLevel
)

// Initialize sets up the logging directory and loads config.
// Should be called once at startup with the workspace path.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	dir := filepath.Join(ws, ".highpitch", "logs")
	configMu.Lock()
	logsDir = dir
	configMu.Unlock()

	if err := loadConfig(ws); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not load config: %v\n", err)
		configMu.Lock()
		config.DebugMode = false
		configMu.Unlock()
	}

	if !IsDebugMode() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	_, lvl := snapshot()
	Boot("=== highpitch logging initialized ===")
	Boot("Workspace: %s", ws)
	Boot("Log level: %s", lvl)
	return nil
}

// loadConfig reads the logging section of .highpitch/config.yaml
func loadConfig(ws string) error {
	configMu.Lock()
	defer configMu.Unlock()

	data, err := os.ReadFile(filepath.Join(ws, ".highpitch", "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			config = loggingConfig{}
			return nil
		}
		return err
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	config = cf.Logging

	if err := level.UnmarshalText([]byte(config.Level)); err != nil || config.Level == "" {
		level = zapcore.InfoLevel
	}
	return nil
}

// SetDebugMode turns file logging on or off at runtime, e.g. from --debug.
func SetDebugMode(on bool) {
	configMu.Lock()
	config.DebugMode = on
	configMu.Unlock()
}

// snapshot returns the log directory and level under configMu.
func snapshot() (string, zapcore.Level) {
	configMu.RLock()
	defer configMu.RUnlock()
	return logsDir, level
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.DebugMode {
		return false
	}
	if config.Categories == nil {
		return true
	}
	enabled, exists := config.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	dir, lvl := snapshot()
	if !IsCategoryEnabled(category) || dir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	core := zapcore.NewCore(newEncoder(), zapcore.AddSync(file), lvl)
	l := &Logger{
		category: category,
		file:     file,
		sugar:    zap.New(core).Sugar().With("cat", string(category)),
	}
	loggers[category] = l
	return l
}

func newEncoder() zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	configMu.RLock()
	format := config.Format
	configMu.RUnlock()

	if format == "json" {
		return zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// With returns a logger that attaches key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...), file: l.file}
}

// CloseAll flushes and closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.sugar != nil {
			_ = l.sugar.Sync()
		}
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

func Boot(format string, args ...interface{})       { Get(CategoryBoot).Info(format, args...) }
func BootWarn(format string, args ...interface{})   { Get(CategoryBoot).Warn(format, args...) }
func Session(format string, args ...interface{})    { Get(CategorySession).Info(format, args...) }
func Store(format string, args ...interface{})      { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }
func Chart(format string, args ...interface{})      { Get(CategoryChart).Info(format, args...) }
func ChartDebug(format string, args ...interface{}) { Get(CategoryChart).Debug(format, args...) }
func Onboarding(format string, args ...interface{}) {
	Get(CategoryOnboarding).Info(format, args...)
}
func OnboardingWarn(format string, args ...interface{}) {
	Get(CategoryOnboarding).Warn(format, args...)
}
func Inbox(format string, args ...interface{})      { Get(CategoryInbox).Info(format, args...) }
func InboxWarn(format string, args ...interface{})  { Get(CategoryInbox).Warn(format, args...) }
func InboxError(format string, args ...interface{}) { Get(CategoryInbox).Error(format, args...) }
func UI(format string, args ...interface{})         { Get(CategoryUI).Debug(format, args...) }

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
