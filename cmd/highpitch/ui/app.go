package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"highpitch/internal/filler"
	"highpitch/internal/inbox"
	"highpitch/internal/logging"
)

// Page identifies a top-level screen.
type Page int

const (
	PageOnboarding Page = iota
	PageSessions
	PageChart
)

// ImportedMsg is emitted for each file the inbox watcher settles.
type ImportedMsg struct {
	Result inbox.Result
}

// WaitForImport blocks on the watcher's next result.
func WaitForImport(events <-chan inbox.Result) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-events
		if !ok {
			return nil
		}
		return ImportedMsg{Result: r}
	}
}

// AppOptions wires the app to its collaborators.
type AppOptions struct {
	Start      Page
	SessionID  string
	Onboarding OnboardingOptions
	Sessions   SessionSource
	Layout     filler.Layout
	Styles     Styles
	Resize     time.Duration
	// Imports delivers inbox results while the app runs. May be nil.
	Imports <-chan inbox.Result
	// OnSessionOpened is called when a session is charted. May be nil.
	OnSessionOpened func(id string)
	// Standalone pages quit instead of returning to the session list.
	Standalone bool
}

// AppModel hosts the onboarding, session list and chart pages.
type AppModel struct {
	opts AppOptions
	page Page

	onboarding OnboardingModel
	sessions   SessionsModel
	chart      FillerChartModel

	width  int
	height int
	banner string
}

// NewAppModel creates the root model.
func NewAppModel(opts AppOptions) AppModel {
	if opts.Layout.MaxHeight <= 0 {
		opts.Layout = filler.DefaultLayout()
	}
	onb := opts.Onboarding
	onb.Styles = opts.Styles

	return AppModel{
		opts:       opts,
		page:       opts.Start,
		onboarding: NewOnboardingModel(onb),
		sessions:   NewSessionsModel(opts.Styles),
		chart:      NewFillerChartModel(opts.Layout, opts.Styles, NewResizeDebouncer(opts.Resize)),
	}
}

// Page returns the visible page.
func (m AppModel) Page() Page {
	return m.page
}

// Init loads the data the start page needs.
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{WaitForImport(m.opts.Imports)}
	switch m.page {
	case PageSessions:
		cmds = append(cmds, m.loadSessions())
	case PageChart:
		if m.opts.Sessions != nil && m.opts.SessionID != "" {
			cmds = append(cmds, LoadSession(m.opts.Sessions, m.opts.SessionID))
		}
	}
	return tea.Batch(cmds...)
}

func (m AppModel) loadSessions() tea.Cmd {
	if m.opts.Sessions == nil {
		return nil
	}
	return LoadSessions(m.opts.Sessions)
}

// Update routes messages to the visible page.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.onboarding.SetSize(msg.Width, msg.Height)
		m.sessions.SetSize(msg.Width, msg.Height-2)
		m.chart, cmd = m.chart.Update(msg)
		return m, cmd

	case resizeSettledMsg:
		m.chart, cmd = m.chart.Update(msg)
		return m, cmd

	case OnboardingDoneMsg:
		logging.UI("onboarding completed")
		if m.opts.Standalone {
			return m, tea.Quit
		}
		m.page = PageSessions
		return m, m.loadSessions()

	case OpenSessionMsg:
		if m.opts.Sessions == nil {
			return m, nil
		}
		return m, LoadSession(m.opts.Sessions, msg.ID)

	case SessionLoadedMsg:
		m.chart, cmd = m.chart.Update(msg)
		if msg.Err == nil && msg.Session != nil {
			m.page = PageChart
			if m.opts.OnSessionOpened != nil {
				m.opts.OnSessionOpened(msg.Session.ID)
			}
		}
		return m, cmd

	case SessionsLoadedMsg:
		m.sessions, cmd = m.sessions.Update(msg)
		return m, cmd

	case BackMsg:
		if m.opts.Standalone {
			return m, tea.Quit
		}
		m.page = PageSessions
		return m, m.loadSessions()

	case ImportedMsg:
		return m.handleImport(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.page == PageSessions && msg.String() == "q" && !m.sessions.Filtering() {
			return m, tea.Quit
		}
	}

	switch m.page {
	case PageOnboarding:
		m.onboarding, cmd = m.onboarding.Update(msg)
	case PageSessions:
		m.sessions, cmd = m.sessions.Update(msg)
	case PageChart:
		m.chart, cmd = m.chart.Update(msg)
	}
	return m, cmd
}

// handleImport refreshes whatever shows the imported session and re-arms
// the watcher subscription.
func (m AppModel) handleImport(msg ImportedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{WaitForImport(m.opts.Imports)}
	r := msg.Result
	if r.Err != nil {
		m.banner = m.opts.Styles.Error.Render(fmt.Sprintf("가져오기 실패: %v", r.Err))
		return m, tea.Batch(cmds...)
	}
	if r.Session == nil {
		return m, tea.Batch(cmds...)
	}

	m.banner = m.opts.Styles.Success.Render(fmt.Sprintf("새 연습 기록을 가져왔어요: %s", r.Session.Title))
	switch m.page {
	case PageSessions:
		cmds = append(cmds, m.loadSessions())
	case PageChart:
		if cur := m.chart.Session(); cur != nil && cur.ID == r.Session.ID {
			m.chart.SetSession(r.Session)
		}
	}
	return m, tea.Batch(cmds...)
}

// View renders the visible page.
func (m AppModel) View() string {
	var body string
	switch m.page {
	case PageOnboarding:
		body = m.onboarding.View()
	case PageSessions:
		body = m.sessions.View()
	case PageChart:
		body = m.chart.View()
	}
	if m.banner != "" {
		return m.banner + "\n" + body
	}
	return body
}
