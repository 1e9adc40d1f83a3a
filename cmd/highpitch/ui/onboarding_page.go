package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"highpitch/internal/logging"
	"highpitch/internal/onboarding"
)

const leftPaneWidth = 44

// OnboardingDoneMsg is sent once the tour has been completed.
type OnboardingDoneMsg struct{}

// TourJournal records tour progress beyond the completion flag.
type TourJournal interface {
	MarkStepSeen(step string) error
	MarkPaceTestSkipped() error
}

// OnboardingOptions configures the onboarding page.
type OnboardingOptions struct {
	Store   onboarding.ConfigStore
	Journal TourJournal
	// BaselineSPM is recorded when the pace test is skipped.
	BaselineSPM float64
	// InitialPace is an already measured pace, 0 if none.
	InitialPace float64
	// StartStep resumes an interrupted tour.
	StartStep onboarding.Step
	// OnPaceMeasured is called after a pace is entered on the speech test.
	OnPaceMeasured func(spm float64) error
	Styles         Styles
}

type onboardingKeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Skip  key.Binding
	Focus key.Binding
	Quit  key.Binding

	// Blocked matches the next keys while Next is disabled. It has no help.
	Blocked key.Binding
}

func (k onboardingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Focus, k.Skip, k.Quit}
}

func (k onboardingKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func newOnboardingKeyMap() onboardingKeyMap {
	return onboardingKeyMap{
		Prev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "이전")),
		Next:  key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→/enter", "다음")),
		Skip:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "건너뛰기")),
		Focus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "속도 입력")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "종료")),

		Blocked: key.NewBinding(key.WithKeys("right", "l", "enter")),
	}
}

// paceTest is shared between the model copies bubbletea makes and the
// controller's readiness check.
type paceTest struct {
	spm      float64
	measured bool
}

// OnboardingModel walks the user through the six tour steps.
type OnboardingModel struct {
	ctrl     *onboarding.Controller
	store    onboarding.ConfigStore
	journal  TourJournal
	pace     *paceTest
	baseline float64
	onPace   func(spm float64) error

	input    textinput.Model
	keys     onboardingKeyMap
	help     help.Model
	renderer *glamour.TermRenderer
	cache    *RenderCache
	styles   Styles

	width  int
	height int
	notice bool
	status string
}

// NewOnboardingModel creates the onboarding page.
func NewOnboardingModel(opts OnboardingOptions) OnboardingModel {
	baseline := opts.BaselineSPM
	if baseline <= 0 {
		baseline = onboarding.BaselineSPM
	}

	pace := &paceTest{}
	if opts.InitialPace > 0 {
		pace.spm, pace.measured = opts.InitialPace, true
	}

	ctrl := onboarding.NewController(opts.Store,
		func() bool { return pace.measured },
		onboarding.WithBaselineSPM(baseline),
		onboarding.WithStartStep(opts.StartStep))

	ti := textinput.New()
	ti.Placeholder = "예: 320"
	ti.CharLimit = 6
	ti.Width = 10
	ti.Prompt = "SPM › "

	m := OnboardingModel{
		ctrl:     ctrl,
		store:    opts.Store,
		journal:  opts.Journal,
		pace:     pace,
		baseline: baseline,
		onPace:   opts.OnPaceMeasured,
		input:    ti,
		keys:     newOnboardingKeyMap(),
		help:     help.New(),
		cache:    NewRenderCache(16),
		styles:   opts.Styles,
	}
	m.renderer = newCopyRenderer(opts.Styles.Theme, leftPaneWidth-6)
	m.markSeen()
	m.syncKeys()
	return m
}

func newCopyRenderer(theme Theme, wrap int) *glamour.TermRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("glamour renderer unavailable: %v", err)
		return nil
	}
	return r
}

// Controller exposes the step controller.
func (m OnboardingModel) Controller() *onboarding.Controller {
	return m.ctrl
}

// NoticeVisible reports whether the skip notice is showing.
func (m OnboardingModel) NoticeVisible() bool {
	return m.notice
}

// SetSize updates the page size.
func (m *OnboardingModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
}

// Init initializes the model.
func (m OnboardingModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnboardingModel) Update(msg tea.Msg) (OnboardingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.notice {
			switch msg.String() {
			case "enter", "esc", " ":
				m.notice = false
			}
			return m, nil
		}
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m OnboardingModel) updateKeys(msg tea.KeyMsg) (OnboardingModel, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Prev):
		m.ctrl.Retreat()
		m.markSeen()

	case key.Matches(msg, m.keys.Next):
		atLast := m.ctrl.Current() == onboarding.LastStep
		if err := m.ctrl.Advance(); err != nil {
			if errors.Is(err, onboarding.ErrNotReady) {
				m.status = m.styles.Error.Render("먼저 말하기 속도를 측정해주세요")
			} else {
				m.status = m.styles.Error.Render("설정을 저장하지 못했어요")
			}
			break
		}
		m.markSeen()
		if atLast {
			m.syncKeys()
			return m, func() tea.Msg { return OnboardingDoneMsg{} }
		}
		if m.ctrl.Current() == onboarding.StepSpeechTest && !m.pace.measured {
			m.input.Focus()
		}

	case key.Matches(msg, m.keys.Blocked):
		m.status = m.styles.Error.Render("먼저 말하기 속도를 측정해주세요")

	case key.Matches(msg, m.keys.Focus):
		if m.ctrl.Current() == onboarding.StepSpeechTest {
			m.input.Focus()
		}

	case key.Matches(msg, m.keys.Skip):
		res := m.ctrl.Skip()
		m.pace.spm, m.pace.measured = res.SPMAverage, true
		if m.journal != nil {
			if err := m.journal.MarkPaceTestSkipped(); err != nil {
				logging.Get(logging.CategoryUI).Warn("record skip: %v", err)
			}
		}
		m.notice = res.NoticeRequired
	}

	m.syncKeys()
	return m, nil
}

func (m OnboardingModel) updateInput(msg tea.KeyMsg) (OnboardingModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.input.Blur()
		return m, nil
	case "enter":
		spm, err := parsePace(m.input.Value())
		if err != nil {
			m.status = m.styles.Error.Render(err.Error())
			return m, nil
		}
		if m.store != nil {
			if err := m.store.SetSPMAverage(spm); err != nil {
				logging.Get(logging.CategoryUI).Warn("persist pace: %v", err)
			}
		}
		if m.onPace != nil {
			if err := m.onPace(spm); err != nil {
				logging.Get(logging.CategoryUI).Warn("record session pace: %v", err)
			}
		}
		m.pace.spm, m.pace.measured = spm, true
		m.status = m.styles.Success.Render(fmt.Sprintf("평균 말하기 속도 %.1f SPM을 저장했어요", spm))
		m.input.Blur()
		m.syncKeys()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func parsePace(s string) (float64, error) {
	spm, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || spm <= 0 || spm > 1000 {
		return 0, fmt.Errorf("1에서 1000 사이의 숫자를 입력해주세요")
	}
	return spm, nil
}

func (m *OnboardingModel) syncKeys() {
	m.keys.Prev.SetEnabled(m.ctrl.CanRetreat())
	m.keys.Next.SetEnabled(m.ctrl.CanAdvance())
	m.keys.Focus.SetEnabled(m.ctrl.Current() == onboarding.StepSpeechTest)
}

func (m OnboardingModel) markSeen() {
	if m.journal == nil {
		return
	}
	if err := m.journal.MarkStepSeen(m.ctrl.Current().String()); err != nil {
		logging.Get(logging.CategoryUI).Warn("record step: %v", err)
	}
}

// View renders the page.
func (m OnboardingModel) View() string {
	if m.notice {
		return m.noticeView()
	}

	left := m.styles.Pane.Width(leftPaneWidth).Render(m.leftPane())
	right := m.styles.Stage.Render(m.rightPane())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m OnboardingModel) leftPane() string {
	step := m.ctrl.Current()
	content := onboarding.Content(step)

	var sb strings.Builder
	if step == onboarding.StepIntro {
		sb.WriteString(m.styles.Button.Render("HIGHPITCH"))
	} else {
		sb.WriteString(m.indicator())
	}
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Title.Render(content.Title))
	sb.WriteString("\n")
	sb.WriteString(m.renderCopy(content.Subtitle))
	sb.WriteString("\n\n")

	switch step {
	case onboarding.StepIntro:
		sb.WriteString(m.styles.Button.Render("하이피치 사용법 보기"))
	default:
		next := "다음"
		if step == onboarding.LastStep {
			next = "하이피치 시작하기"
		}
		nextStyle := m.styles.Button
		if !m.ctrl.CanAdvance() {
			nextStyle = m.styles.ButtonDisabled
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
			m.styles.ButtonSecond.Render("이전"), " ", nextStyle.Render(next)))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.SkipLink.Render("건너뛰기 ›"))
	return sb.String()
}

// indicator renders "n/5" followed by one pill per step after the intro.
func (m OnboardingModel) indicator() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Indicator.Render(m.ctrl.Indicator()))
	for _, filled := range m.ctrl.Pills() {
		if filled {
			sb.WriteString(m.styles.PillOn.Render("▬▬"))
		} else {
			sb.WriteString(m.styles.PillOff.Render("▬▬"))
		}
		sb.WriteString(" ")
	}
	return strings.TrimRight(sb.String(), " ")
}

// renderCopy renders the step subtitle through glamour, keeping the
// authored line breaks.
func (m OnboardingModel) renderCopy(s string) string {
	if m.renderer == nil {
		return m.styles.Subtitle.Render(s)
	}
	return m.cache.GetOrCompute(ComputeKey(s, m.styles.Theme.IsDark), func() string {
		md := strings.ReplaceAll(s, "\n", "  \n")
		out, err := m.renderer.Render(md)
		if err != nil {
			return m.styles.Subtitle.Render(s)
		}
		return strings.Trim(out, "\n")
	})
}

func (m OnboardingModel) rightPane() string {
	step := m.ctrl.Current()
	ill := onboarding.Content(step).Illustration

	if !ill.Embedded {
		return fmt.Sprintf("[ %s ]", ill.Image)
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render("말하기 속도 측정"))
	sb.WriteString("\n\n")
	if m.pace.measured {
		sb.WriteString(fmt.Sprintf("측정 결과: %.1f SPM", m.pace.spm))
		sb.WriteString("\n")
	}
	if m.input.Focused() || !m.pace.measured {
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
		sb.WriteString("연습 문장을 읽은 뒤 분당 음절 수를 입력하고 enter")
	}
	return sb.String()
}

func (m OnboardingModel) noticeView() string {
	body := fmt.Sprintf("%s\n\n%s\n\n%s",
		m.styles.Title.Render("말하기 속도 측정을 건너뛰었어요"),
		fmt.Sprintf("평균 말하기 속도를 기본값 %.1f SPM으로 설정했어요.\n연습을 마치면 실제 속도로 다시 측정할 수 있어요.", m.pace.spm),
		m.styles.Button.Render("확인"))
	box := m.styles.Notice.Render(body)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
