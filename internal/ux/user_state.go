package ux

import (
	"os"
	"time"
)

// UserJourneyState represents where the user is relative to the tour.
type UserJourneyState string

const (
	// StateNew indicates a first-time user (no preferences yet).
	StateNew UserJourneyState = "new"

	// StateTouring indicates the onboarding tour was opened but not finished.
	StateTouring UserJourneyState = "touring"

	// StatePracticing indicates the tour is done and the user records sessions.
	StatePracticing UserJourneyState = "practicing"
)

// UserMetrics tracks local usage counters.
type UserMetrics struct {
	SessionsViewed   int    `json:"sessions_viewed"`
	SessionsImported int    `json:"sessions_imported"`
	ChartsExported   int    `json:"charts_exported"`
	LastSession      string `json:"last_session,omitempty"`
}

// ShouldShowOnboarding reports whether the tour should open on launch.
func ShouldShowOnboarding(workspace string) bool {
	if os.Getenv("HIGHPITCH_SKIP_ONBOARDING") == "1" {
		return false
	}

	pm := NewPreferencesManager(workspace)
	if err := pm.Load(); err != nil {
		// Unreadable preferences: show the tour rather than strand the user.
		return true
	}
	return !pm.PassOnboarding()
}

// RecordSessionView bumps the viewed counter and remembers the session.
func RecordSessionView(workspace, sessionID string) error {
	pm := NewPreferencesManager(workspace)
	if err := pm.Load(); err != nil {
		return err
	}
	return pm.RecordSessionView(sessionID)
}

// RecordSessionView bumps the viewed counter and remembers the session.
func (pm *PreferencesManager) RecordSessionView(sessionID string) error {
	return pm.update(func(p *UserPreferences) error {
		p.Metrics.SessionsViewed++
		p.Metrics.LastSession = sessionID
		if p.UserJourney.State == StateNew {
			p.UserJourney.State = StatePracticing
			p.UserJourney.TransitionTimestamp = time.Now().Format(time.RFC3339)
		}
		return nil
	})
}
