package ux

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// legacyPassKey is the misspelled completion key written by version 1.
const legacyPassKey = "isPassOnbarding"

// MigrationResult contains information about a preferences migration.
type MigrationResult struct {
	WasMigrated     bool
	FromVersion     string
	ToVersion       string
	PreservedData   []string // List of data that was preserved
	DefaultsApplied []string // List of defaults that were applied
}

// MigratePreferences checks and migrates preferences to the latest schema.
func MigratePreferences(workspace string) (*MigrationResult, error) {
	result := &MigrationResult{
		ToVersion: PreferencesVersion,
	}

	data, err := os.ReadFile(PreferencesPath(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return createNewUserPreferences(workspace)
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var rawPrefs map[string]interface{}
	if err := json.Unmarshal(data, &rawPrefs); err != nil {
		// Unparseable file: start over, the tour will simply run again.
		res, err := createNewUserPreferences(workspace)
		if res != nil {
			res.DefaultsApplied = append(res.DefaultsApplied, "replaced_corrupt_file")
		}
		return res, err
	}

	version, _ := rawPrefs["version"].(string)
	result.FromVersion = version

	if version == PreferencesVersion {
		result.WasMigrated = false
		return result, nil
	}

	return migrateFromOldVersion(workspace, version, rawPrefs)
}

// createNewUserPreferences creates default preferences for a new user.
func createNewUserPreferences(workspace string) (*MigrationResult, error) {
	pm := NewPreferencesManager(workspace)
	pm.preferences = DefaultUserPreferences()

	if err := pm.Save(); err != nil {
		return nil, fmt.Errorf("failed to save new preferences: %w", err)
	}

	return &MigrationResult{
		WasMigrated:     true,
		ToVersion:       PreferencesVersion,
		DefaultsApplied: []string{"new_user_defaults"},
	}, nil
}

// migrateFromOldVersion carries the flat version-1 keys into the current schema.
func migrateFromOldVersion(workspace, from string, oldPrefs map[string]interface{}) (*MigrationResult, error) {
	result := &MigrationResult{
		WasMigrated: true,
		FromVersion: from,
		ToVersion:   PreferencesVersion,
	}

	prefs := DefaultUserPreferences()

	if passed, ok := oldPrefs["isPassOnboarding"].(bool); ok {
		prefs.IsPassOnboarding = passed
		result.PreservedData = append(result.PreservedData, "isPassOnboarding")
	} else if passed, ok := oldPrefs[legacyPassKey].(bool); ok {
		prefs.IsPassOnboarding = passed
		result.PreservedData = append(result.PreservedData, legacyPassKey)
	}

	if spm, ok := oldPrefs["spmAverage"].(float64); ok && spm >= 0 {
		prefs.SPMAverage = spm
		result.PreservedData = append(result.PreservedData, "spmAverage")
	}

	if prefs.IsPassOnboarding {
		prefs.UserJourney.State = StatePracticing
		prefs.UserJourney.OnboardingCompletedAt = time.Now().Format(time.RFC3339)
		result.DefaultsApplied = append(result.DefaultsApplied, "practicing_state")
	}

	pm := NewPreferencesManager(workspace)
	pm.preferences = prefs

	if err := pm.Save(); err != nil {
		return nil, fmt.Errorf("failed to save migrated preferences: %w", err)
	}

	return result, nil
}

// IsFirstRun checks if this is a first-time run (no .highpitch directory).
func IsFirstRun(workspace string) bool {
	_, err := os.Stat(filepath.Join(workspace, ".highpitch"))
	return os.IsNotExist(err)
}
