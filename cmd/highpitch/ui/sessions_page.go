package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"highpitch/internal/store"
)

// SessionSource is the read side of the session store.
type SessionSource interface {
	ListSessions(ctx context.Context, limit int) ([]store.Summary, error)
	GetSession(ctx context.Context, id string) (*store.Session, error)
}

// OpenSessionMsg asks the app to chart a session.
type OpenSessionMsg struct {
	ID string
}

// SessionsLoadedMsg carries a refreshed session list.
type SessionsLoadedMsg struct {
	Sessions []store.Summary
	Err      error
}

// LoadSessions returns a command that lists stored sessions.
func LoadSessions(src SessionSource) tea.Cmd {
	return func() tea.Msg {
		sessions, err := src.ListSessions(context.Background(), 0)
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

// LoadSession returns a command that fetches one session.
func LoadSession(src SessionSource, id string) tea.Cmd {
	return func() tea.Msg {
		sess, err := src.GetSession(context.Background(), id)
		return SessionLoadedMsg{Session: sess, Err: err}
	}
}

// sessionItem adapts store.Summary to list.Item
type sessionItem struct {
	s store.Summary
}

func (i sessionItem) Title() string {
	if i.s.Title != "" {
		return i.s.Title
	}
	return i.s.ID
}

func (i sessionItem) Description() string {
	desc := fmt.Sprintf("%s · 습관어 %d회 · %d가지",
		i.s.StartedAt.Local().Format("2006-01-02 15:04"), i.s.TotalFillers, i.s.WordTypes)
	if i.s.SPM > 0 {
		desc += fmt.Sprintf(" · %.0f SPM", i.s.SPM)
	}
	return desc
}

func (i sessionItem) FilterValue() string { return i.s.Title + " " + i.s.Source }

// SessionsModel lists practice sessions.
type SessionsModel struct {
	list   list.Model
	styles Styles
	err    error
	loaded bool
}

// NewSessionsModel creates the session browser.
func NewSessionsModel(styles Styles) SessionsModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "연습 기록"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("연습", "연습")
	l.Styles.Title = styles.Button

	return SessionsModel{list: l, styles: styles}
}

// SetSize updates the list size.
func (m *SessionsModel) SetSize(w, h int) {
	m.list.SetSize(w, h)
}

// Len returns the number of listed sessions.
func (m SessionsModel) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the list is taking filter input.
func (m SessionsModel) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Init initializes the model.
func (m SessionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SessionsModel) Update(msg tea.Msg) (SessionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case SessionsLoadedMsg:
		m.loaded = true
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{s: s}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering && msg.String() == "enter" {
			if sel, ok := m.list.SelectedItem().(sessionItem); ok {
				id := sel.s.ID
				return m, func() tea.Msg { return OpenSessionMsg{ID: id} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the page.
func (m SessionsModel) View() string {
	if m.err != nil {
		return m.styles.Error.Render("연습 기록을 불러오지 못했어요: " + m.err.Error())
	}
	if m.loaded && len(m.list.Items()) == 0 {
		return m.styles.Title.Render("연습 기록") + "\n" +
			m.styles.Muted.Render("아직 연습 기록이 없어요. `highpitch import`로 기록을 가져와 보세요.")
	}
	return m.list.View()
}
