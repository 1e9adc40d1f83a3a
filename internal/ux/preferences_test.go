package ux

import (
	"encoding/json"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highpitch/internal/onboarding"
)

func TestDefaultUserPreferences(t *testing.T) {
	prefs := DefaultUserPreferences()
	if prefs.Version != PreferencesVersion {
		t.Fatalf("unexpected preferences version: %s", prefs.Version)
	}
	if prefs.IsPassOnboarding {
		t.Fatalf("new users have not passed onboarding")
	}
	if prefs.UserJourney.State != StateNew {
		t.Fatalf("unexpected journey state: %s", prefs.UserJourney.State)
	}
}

func TestPreferencesManagerLoadSave(t *testing.T) {
	workspace := t.TempDir()
	pm := NewPreferencesManager(workspace)
	require.NoError(t, pm.Load())

	require.NoError(t, pm.SetSPMAverage(312.5))
	require.NoError(t, pm.SetPassOnboarding(true))

	pm2 := NewPreferencesManager(workspace)
	require.NoError(t, pm2.Load())
	assert.True(t, pm2.PassOnboarding())
	assert.Equal(t, 312.5, pm2.SPMAverage())
	assert.Equal(t, StatePracticing, pm2.Get().UserJourney.State)
	assert.NotEmpty(t, pm2.Get().UserJourney.OnboardingCompletedAt)
}

func TestPreferencesFileKeys(t *testing.T) {
	pm := NewPreferencesManager(t.TempDir())
	require.NoError(t, pm.SetPassOnboarding(true))
	require.NoError(t, pm.SetSPMAverage(onboarding.BaselineSPM))

	data, err := os.ReadFile(pm.Path())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, true, raw["isPassOnboarding"])
	assert.Equal(t, 356.7, raw["spmAverage"])
}

func TestSetPassOnboardingFalseResetsJourney(t *testing.T) {
	pm := NewPreferencesManager(t.TempDir())
	require.NoError(t, pm.MarkStepSeen("intro"))
	require.NoError(t, pm.SetPassOnboarding(true))
	require.NoError(t, pm.SetPassOnboarding(false))

	prefs := pm.Get()
	assert.False(t, prefs.IsPassOnboarding)
	assert.Equal(t, StateNew, prefs.UserJourney.State)
	assert.Empty(t, prefs.UserJourney.StepsSeen)
}

func TestSetSPMAverageRejectsNegative(t *testing.T) {
	pm := NewPreferencesManager(t.TempDir())
	assert.Error(t, pm.SetSPMAverage(-1))
	assert.Zero(t, pm.SPMAverage())
}

func TestMarkStepSeen(t *testing.T) {
	pm := NewPreferencesManager(t.TempDir())
	require.NoError(t, pm.MarkStepSeen("intro"))
	require.NoError(t, pm.MarkStepSeen("intro"))
	require.NoError(t, pm.MarkStepSeen("menubar"))

	prefs := pm.Get()
	assert.Equal(t, []string{"intro", "menubar"}, prefs.UserJourney.StepsSeen)
	assert.Equal(t, StateTouring, prefs.UserJourney.State)
}

func TestIncrementMetric(t *testing.T) {
	pm := NewPreferencesManager(t.TempDir())
	if err := pm.IncrementMetric("sessions_imported"); err != nil {
		t.Fatalf("increment metric failed: %v", err)
	}
	if pm.Get().Metrics.SessionsImported != 1 {
		t.Fatalf("expected sessions imported to increment")
	}
	if err := pm.IncrementMetric("unknown"); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	workspace := t.TempDir()
	pm := NewPreferencesManager(workspace)
	require.NoError(t, os.MkdirAll(workspace+"/.highpitch", 0755))
	require.NoError(t, os.WriteFile(pm.Path(), []byte("{not json"), 0644))

	assert.Error(t, pm.Load())
}

func TestPreferencesConcurrentWrites(t *testing.T) {
	workspace := t.TempDir()
	pm := NewPreferencesManager(workspace)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = pm.SetSPMAverage(float64(300 + i))
		}(i)
	}
	wg.Wait()

	reloaded := NewPreferencesManager(workspace)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, pm.SPMAverage(), reloaded.SPMAverage(), "last write wins on disk and in memory")
}

// The controller drives the manager through its interface.
func TestControllerWithPreferences(t *testing.T) {
	pm := NewPreferencesManager(t.TempDir())
	ctrl := onboarding.NewController(pm, func() bool { return true }, onboarding.WithStartStep(onboarding.StepOuttro))

	require.NoError(t, ctrl.Advance())
	assert.True(t, pm.PassOnboarding())

	res := ctrl.Skip()
	assert.True(t, res.NoticeRequired)
	assert.Equal(t, onboarding.BaselineSPM, pm.SPMAverage())
}
