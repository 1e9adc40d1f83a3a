package ui

import (
	"regexp"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

var ansiRE = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

func plain(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// fakePrefs implements onboarding.ConfigStore and TourJournal in memory.
type fakePrefs struct {
	mu      sync.Mutex
	passed  bool
	spm     float64
	writes  int
	seen    []string
	skipped int
}

func (f *fakePrefs) SetPassOnboarding(v bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passed = v
	f.writes++
	return nil
}

func (f *fakePrefs) PassOnboarding() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.passed
}

func (f *fakePrefs) SetSPMAverage(v float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spm = v
	return nil
}

func (f *fakePrefs) SPMAverage() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spm
}

func (f *fakePrefs) MarkStepSeen(step string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, step)
	return nil
}

func (f *fakePrefs) MarkPaceTestSkipped() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skipped++
	return nil
}
