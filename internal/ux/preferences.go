package ux

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"highpitch/internal/logging"
	"highpitch/internal/onboarding"
)

// PreferencesVersion is the current schema version for preferences.json.
const PreferencesVersion = "2.0"

// UserPreferences is the preferences.json schema.
type UserPreferences struct {
	// Version is the schema version for migration detection
	Version string `json:"version"`

	// IsPassOnboarding is true once the tour has been finished
	IsPassOnboarding bool `json:"isPassOnboarding"`

	// SPMAverage is the speaking pace baseline, 0 until measured or skipped
	SPMAverage float64 `json:"spmAverage"`

	// UserJourney tracks the tour's progress
	UserJourney JourneyPrefs `json:"user_journey"`

	// Metrics tracks local usage statistics
	Metrics UserMetrics `json:"metrics"`
}

// JourneyPrefs tracks user journey state.
type JourneyPrefs struct {
	State                 UserJourneyState `json:"state"`
	TransitionTimestamp   string           `json:"transition_timestamp,omitempty"`
	OnboardingCompletedAt string           `json:"onboarding_completed_at,omitempty"`
	OnboardingSkippedAt   string           `json:"onboarding_skipped_at,omitempty"`
	StepsSeen             []string         `json:"steps_seen,omitempty"`
}

// PreferencesManager handles loading/saving preferences.
type PreferencesManager struct {
	mu          sync.RWMutex
	path        string
	preferences *UserPreferences
}

var _ onboarding.ConfigStore = (*PreferencesManager)(nil)

// NewPreferencesManager creates a preferences manager for the given workspace.
func NewPreferencesManager(workspace string) *PreferencesManager {
	return &PreferencesManager{
		path: PreferencesPath(workspace),
	}
}

// PreferencesPath returns .highpitch/preferences.json under workspace.
func PreferencesPath(workspace string) string {
	return filepath.Join(workspace, ".highpitch", "preferences.json")
}

// Path returns the file the manager reads and writes.
func (pm *PreferencesManager) Path() string {
	return pm.path
}

// Load reads preferences from disk, creating defaults if not exists.
func (pm *PreferencesManager) Load() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	data, err := os.ReadFile(pm.path)
	if err != nil {
		if os.IsNotExist(err) {
			pm.preferences = DefaultUserPreferences()
			return nil
		}
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs UserPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return fmt.Errorf("failed to parse preferences: %w", err)
	}

	pm.preferences = &prefs
	return nil
}

// Save writes preferences to disk.
func (pm *PreferencesManager) Save() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.saveLocked()
}

func (pm *PreferencesManager) saveLocked() error {
	if pm.preferences == nil {
		pm.preferences = DefaultUserPreferences()
	}

	dir := filepath.Dir(pm.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := json.MarshalIndent(pm.preferences, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	// Write to a sibling temp file first so a crash never leaves half a file.
	tmp := pm.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, pm.path); err != nil {
		return fmt.Errorf("failed to replace preferences: %w", err)
	}

	return nil
}

// update applies fn under the write lock and persists the result.
func (pm *PreferencesManager) update(fn func(*UserPreferences) error) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.preferences == nil {
		pm.preferences = DefaultUserPreferences()
	}
	if err := fn(pm.preferences); err != nil {
		return err
	}
	return pm.saveLocked()
}

// Get returns a copy of the current preferences (thread-safe).
func (pm *PreferencesManager) Get() UserPreferences {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if pm.preferences == nil {
		return *DefaultUserPreferences()
	}
	p := *pm.preferences
	p.UserJourney.StepsSeen = slices.Clone(p.UserJourney.StepsSeen)
	return p
}

// PassOnboarding reports whether the tour has been finished.
func (pm *PreferencesManager) PassOnboarding() bool {
	return pm.Get().IsPassOnboarding
}

// SetPassOnboarding records the completion flag.
func (pm *PreferencesManager) SetPassOnboarding(passed bool) error {
	err := pm.update(func(p *UserPreferences) error {
		p.IsPassOnboarding = passed
		now := time.Now().Format(time.RFC3339)
		if passed {
			p.UserJourney.State = StatePracticing
			p.UserJourney.OnboardingCompletedAt = now
		} else {
			p.UserJourney.State = StateNew
			p.UserJourney.OnboardingCompletedAt = ""
			p.UserJourney.OnboardingSkippedAt = ""
			p.UserJourney.StepsSeen = nil
		}
		p.UserJourney.TransitionTimestamp = now
		return nil
	})
	if err == nil {
		logging.Onboarding("isPassOnboarding=%v written to %s", passed, pm.path)
	}
	return err
}

// SPMAverage returns the stored pace baseline.
func (pm *PreferencesManager) SPMAverage() float64 {
	return pm.Get().SPMAverage
}

// SetSPMAverage records the pace baseline.
func (pm *PreferencesManager) SetSPMAverage(spm float64) error {
	if spm < 0 {
		return fmt.Errorf("spm average must not be negative, got %v", spm)
	}
	return pm.update(func(p *UserPreferences) error {
		p.SPMAverage = spm
		return nil
	})
}

// MarkStepSeen records that the tour displayed a step.
func (pm *PreferencesManager) MarkStepSeen(step string) error {
	return pm.update(func(p *UserPreferences) error {
		if p.UserJourney.State == StateNew {
			p.UserJourney.State = StateTouring
			p.UserJourney.TransitionTimestamp = time.Now().Format(time.RFC3339)
		}
		if slices.Contains(p.UserJourney.StepsSeen, step) {
			return nil
		}
		p.UserJourney.StepsSeen = append(p.UserJourney.StepsSeen, step)
		return nil
	})
}

// MarkPaceTestSkipped records when the user skipped the pace test.
func (pm *PreferencesManager) MarkPaceTestSkipped() error {
	return pm.update(func(p *UserPreferences) error {
		p.UserJourney.OnboardingSkippedAt = time.Now().Format(time.RFC3339)
		return nil
	})
}

// IncrementMetric increments a numeric metric.
func (pm *PreferencesManager) IncrementMetric(metric string) error {
	return pm.update(func(p *UserPreferences) error {
		switch metric {
		case "sessions_viewed":
			p.Metrics.SessionsViewed++
		case "sessions_imported":
			p.Metrics.SessionsImported++
		case "charts_exported":
			p.Metrics.ChartsExported++
		default:
			return fmt.Errorf("unknown metric: %s", metric)
		}
		return nil
	})
}

// DefaultUserPreferences returns the preferences of a user who has not
// opened highpitch before.
func DefaultUserPreferences() *UserPreferences {
	return &UserPreferences{
		Version: PreferencesVersion,
		UserJourney: JourneyPrefs{
			State:               StateNew,
			TransitionTimestamp: time.Now().Format(time.RFC3339),
		},
	}
}
