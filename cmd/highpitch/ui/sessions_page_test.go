package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highpitch/internal/store"
)

// fakeSessions is an in-memory SessionSource.
type fakeSessions struct {
	sessions map[string]*store.Session
	order    []string
	listErr  error
}

func newFakeSessions(ss ...*store.Session) *fakeSessions {
	f := &fakeSessions{sessions: make(map[string]*store.Session)}
	for _, s := range ss {
		f.sessions[s.ID] = s
		f.order = append(f.order, s.ID)
	}
	return f
}

func (f *fakeSessions) ListSessions(_ context.Context, _ int) ([]store.Summary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]store.Summary, 0, len(f.order))
	for _, id := range f.order {
		s := f.sessions[id]
		out = append(out, store.Summary{
			ID:           s.ID,
			Title:        s.Title,
			StartedAt:    s.StartedAt,
			TotalFillers: s.TotalFillers,
			WordTypes:    len(s.Words),
		})
	}
	return out, nil
}

func (f *fakeSessions) GetSession(_ context.Context, id string) (*store.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, store.ErrSessionNotFound)
	}
	return s, nil
}

func TestSessionsPage_ListsAndOpens(t *testing.T) {
	second := &store.Session{ID: "s-2", Title: "면접 연습", StartedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), TotalFillers: 4}
	src := newFakeSessions(sampleSession(), second)

	m := NewSessionsModel(NewStyles(LightTheme()))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = m.Update(LoadSessions(src)())

	require.Equal(t, 2, m.Len())
	view := plain(m.View())
	assert.Contains(t, view, "발표 연습")
	assert.Contains(t, view, "습관어 13회")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, OpenSessionMsg{ID: "s-1"}, cmd())
}

func TestSessionsPage_Empty(t *testing.T) {
	m := NewSessionsModel(NewStyles(LightTheme()))
	m, _ = m.Update(SessionsLoadedMsg{})

	assert.Equal(t, 0, m.Len())
	assert.Contains(t, plain(m.View()), "아직 연습 기록이 없어요")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestSessionsPage_Error(t *testing.T) {
	src := newFakeSessions()
	src.listErr = errors.New("database is locked")

	m := NewSessionsModel(NewStyles(LightTheme()))
	m, _ = m.Update(LoadSessions(src)())
	assert.Contains(t, plain(m.View()), "database is locked")
}

func TestSessionItem_Description(t *testing.T) {
	it := sessionItem{s: store.Summary{
		ID:           "x",
		StartedAt:    time.Now(),
		TotalFillers: 7,
		WordTypes:    3,
		SPM:          341.6,
	}}
	assert.Equal(t, "x", it.Title())
	assert.Contains(t, it.Description(), "습관어 7회 · 3가지")
	assert.Contains(t, it.Description(), "342 SPM")
}
