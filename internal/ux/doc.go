// Package ux persists the small amount of per-user state highpitch keeps
// outside the session database.
//
// The preferences file at .highpitch/preferences.json is the durable
// configuration store behind the onboarding tour:
//
//   - isPassOnboarding: set once the user finishes the tour
//   - spmAverage: the user's speaking pace baseline (syllables per minute)
//   - user_journey: when the tour was started, skipped or completed
//   - metrics: local usage counters
//
// Every setter writes through to disk; the last write wins.
package ux
