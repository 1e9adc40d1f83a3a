package ux

import (
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, workspace, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(workspace, ".highpitch"), 0755); err != nil {
		t.Fatalf("failed to create .highpitch: %v", err)
	}
	if err := os.WriteFile(PreferencesPath(workspace), []byte(body), 0644); err != nil {
		t.Fatalf("failed to write preferences: %v", err)
	}
}

func TestIsFirstRun(t *testing.T) {
	workspace := t.TempDir()
	if !IsFirstRun(workspace) {
		t.Fatalf("expected first run when .highpitch does not exist")
	}
	if err := os.MkdirAll(filepath.Join(workspace, ".highpitch"), 0755); err != nil {
		t.Fatalf("failed to create .highpitch: %v", err)
	}
	if IsFirstRun(workspace) {
		t.Fatalf("expected not first run when .highpitch exists")
	}
}

func TestMigratePreferencesNewUser(t *testing.T) {
	workspace := t.TempDir()
	result, err := MigratePreferences(workspace)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !result.WasMigrated {
		t.Fatalf("expected migration for new user")
	}

	pm := NewPreferencesManager(workspace)
	if err := pm.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if pm.PassOnboarding() {
		t.Fatalf("new user should not have passed onboarding")
	}
}

func TestMigratePreferencesLegacyKey(t *testing.T) {
	workspace := t.TempDir()
	writePrefs(t, workspace, `{"isPassOnbarding": true, "spmAverage": 301.2}`)

	result, err := MigratePreferences(workspace)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !result.WasMigrated || result.FromVersion != "" {
		t.Fatalf("unexpected result: %+v", result)
	}

	pm := NewPreferencesManager(workspace)
	if err := pm.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !pm.PassOnboarding() {
		t.Fatalf("legacy completion flag not carried over")
	}
	if pm.SPMAverage() != 301.2 {
		t.Fatalf("spmAverage not preserved: %v", pm.SPMAverage())
	}
	if pm.Get().UserJourney.State != StatePracticing {
		t.Fatalf("expected practicing state")
	}
}

func TestMigratePreferencesCorrectKeyWins(t *testing.T) {
	workspace := t.TempDir()
	writePrefs(t, workspace, `{"version": "1.0", "isPassOnboarding": false, "isPassOnbarding": true}`)

	if _, err := MigratePreferences(workspace); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	pm := NewPreferencesManager(workspace)
	if err := pm.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if pm.PassOnboarding() {
		t.Fatalf("current key should take precedence over the legacy one")
	}
}

func TestMigratePreferencesCurrentVersion(t *testing.T) {
	workspace := t.TempDir()
	writePrefs(t, workspace, `{"version": "2.0", "isPassOnboarding": true}`)

	result, err := MigratePreferences(workspace)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if result.WasMigrated {
		t.Fatalf("current version should not migrate")
	}
}

func TestMigratePreferencesCorruptFile(t *testing.T) {
	workspace := t.TempDir()
	writePrefs(t, workspace, `{{{`)

	result, err := MigratePreferences(workspace)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !result.WasMigrated {
		t.Fatalf("corrupt file should be replaced")
	}
	pm := NewPreferencesManager(workspace)
	if err := pm.Load(); err != nil {
		t.Fatalf("replaced file should load: %v", err)
	}
}

func TestShouldShowOnboarding(t *testing.T) {
	workspace := t.TempDir()
	if !ShouldShowOnboarding(workspace) {
		t.Fatalf("fresh workspace should show onboarding")
	}

	pm := NewPreferencesManager(workspace)
	if err := pm.SetPassOnboarding(true); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if ShouldShowOnboarding(workspace) {
		t.Fatalf("passed user should not see onboarding")
	}
}

func TestShouldShowOnboardingEnvOverride(t *testing.T) {
	t.Setenv("HIGHPITCH_SKIP_ONBOARDING", "1")
	if ShouldShowOnboarding(t.TempDir()) {
		t.Fatalf("env override should suppress onboarding")
	}
}

func TestRecordSessionView(t *testing.T) {
	workspace := t.TempDir()
	if err := RecordSessionView(workspace, "abc"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	pm := NewPreferencesManager(workspace)
	if err := pm.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	m := pm.Get().Metrics
	if m.SessionsViewed != 1 || m.LastSession != "abc" {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}
