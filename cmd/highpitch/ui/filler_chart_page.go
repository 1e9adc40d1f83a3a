package ui

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"highpitch/internal/filler"
	"highpitch/internal/logging"
	"highpitch/internal/store"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// A terminal cell is treated as 8x16 points so the chart keeps the
// proportions it has in points.
const (
	cellWidthPt  = 8.0
	cellHeightPt = 16.0
)

// Ring radii as fractions of the chart size.
const (
	innerRingRatio = 0.618 / 2
	outerRingRatio = 0.8 / 2
)

// BackMsg asks the parent to leave the current page.
type BackMsg struct{}

// SessionLoadedMsg carries a session to chart.
type SessionLoadedMsg struct {
	Session *store.Session
	Err     error
}

type chartKeyMap struct {
	Copy key.Binding
	Back key.Binding
	Quit key.Binding
}

func (k chartKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Copy, k.Back, k.Quit} }
func (k chartKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func newChartKeyMap() chartKeyMap {
	return chartKeyMap{
		Copy: key.NewBinding(key.WithKeys("c", "y"), key.WithHelp("c", "요약 복사")),
		Back: key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "목록")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "종료")),
	}
}

// liveView holds the latest view pushed by the chart's subscription.
type liveView struct {
	mu      sync.Mutex
	view    filler.ChartView
	updates int
}

func (l *liveView) set(v filler.ChartView) {
	l.mu.Lock()
	l.view = v
	l.updates++
	l.mu.Unlock()
}

func (l *liveView) get() filler.ChartView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

// FillerChartModel shows the top filler words of one session as a donut.
type FillerChartModel struct {
	chart   *filler.Chart
	live    *liveView
	cancel  func()
	layout  filler.Layout
	session *store.Session

	resize *ResizeDebouncer
	cache  *RenderCache

	keys   chartKeyMap
	help   help.Model
	styles Styles

	width  int
	height int
	status string
}

// NewFillerChartModel creates a chart page using layout for its geometry.
func NewFillerChartModel(layout filler.Layout, styles Styles, resize *ResizeDebouncer) FillerChartModel {
	if resize == nil {
		resize = NewResizeDebouncer(DefaultResizeDuration)
	}
	live := &liveView{}
	c := filler.NewChart(layout)
	live.set(c.View())
	cancel := c.Subscribe(live.set)

	return FillerChartModel{
		chart:  c,
		live:   live,
		cancel: cancel,
		layout: layout,
		resize: resize,
		cache:  NewRenderCache(32),
		keys:   newChartKeyMap(),
		help:   help.New(),
		styles: styles,
	}
}

// Close detaches the page from its chart.
func (m FillerChartModel) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// SetSession replaces the charted session.
func (m *FillerChartModel) SetSession(sess *store.Session) {
	m.session = sess
	m.status = ""
	if sess == nil {
		m.chart.SetSnapshot(nil, 0)
		return
	}
	m.chart.SetSnapshot(sess.Words, sess.TotalFillers)
	logging.ChartDebug("charting session %s: %d words, total %d", sess.ID, len(sess.Words), sess.TotalFillers)
}

// Session returns the charted session, if any.
func (m FillerChartModel) Session() *store.Session {
	return m.session
}

// ChartView returns the chart's current derived state.
func (m FillerChartModel) ChartView() filler.ChartView {
	return m.live.get()
}

// SetSize applies a terminal size immediately.
func (m *FillerChartModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	m.chart.SetLayout(float64(w)*cellWidthPt, m.layout.MaxHeight)
}

// Init initializes the model.
func (m FillerChartModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m FillerChartModel) Update(msg tea.Msg) (FillerChartModel, tea.Cmd) {
	if w, h, ok := m.resize.Settled(msg); ok {
		m.SetSize(w, h)
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.width == 0 {
			m.SetSize(msg.Width, msg.Height)
			return m, nil
		}
		return m, m.resize.Resize(msg.Width, msg.Height)

	case SessionLoadedMsg:
		if msg.Err != nil {
			m.status = m.styles.Error.Render(msg.Err.Error())
			return m, nil
		}
		m.SetSession(msg.Session)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Copy):
			summary := filler.Summary(m.live.get())
			if err := clipboardWriteAll(summary); err != nil {
				logging.Get(logging.CategoryUI).Warn("clipboard copy failed: %v", err)
				m.status = m.styles.Error.Render("클립보드에 복사하지 못했어요")
			} else {
				m.status = m.styles.Success.Render("요약을 클립보드에 복사했어요")
			}
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the page.
func (m FillerChartModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.ChartTitle.Render("습관어 종류 및 횟수"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("이번 연습에서 자주 언급된 습관어에요."))
	sb.WriteString("\n")
	if m.session != nil && m.session.Title != "" {
		sb.WriteString(m.styles.Body.Render(fmt.Sprintf("%s · %s", m.session.Title, m.session.StartedAt.Local().Format("2006-01-02 15:04"))))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	view := m.live.get()
	width := m.width
	if width <= 0 {
		width = 80
	}
	cacheKey := ComputeKey(chartFingerprint(view), width, m.styles.Theme.IsDark)
	sb.WriteString(m.cache.GetOrCompute(cacheKey, func() string {
		return m.renderDonut(view, width)
	}))
	sb.WriteString("\n")

	if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func chartFingerprint(v filler.ChartView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|%d|%.3f|%.3f|", v.FillerWordCount, v.TypeCount, v.Radius, v.ChartSize)
	for _, b := range v.Buckets {
		fmt.Fprintf(&sb, "%d:%s:%d:%d;", b.Rank, b.Word, b.Value, b.Color)
	}
	return sb.String()
}

// cell is one terminal column of the chart grid.
type cell struct {
	r     rune
	style *lipgloss.Style
	// cont marks the second column of a wide rune.
	cont bool
}

type grid struct {
	w, h  int
	cells [][]cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]cell, h)}
	for y := range g.cells {
		row := make([]cell, w)
		for x := range row {
			row[x].r = ' '
		}
		g.cells[y] = row
	}
	return g
}

// text writes s centered on column cx of row y.
func (g *grid) text(cx, y int, s string, style lipgloss.Style) {
	if y < 0 || y >= g.h {
		return
	}
	x := cx - lipgloss.Width(s)/2
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if x >= 0 && x+rw <= g.w {
			st := style
			g.cells[y][x] = cell{r: r, style: &st}
			for i := 1; i < rw; i++ {
				g.cells[y][x+i] = cell{cont: true}
			}
		}
		x += rw
	}
}

func (g *grid) String() string {
	var sb strings.Builder
	for y, row := range g.cells {
		for _, c := range row {
			if c.cont {
				continue
			}
			if c.style == nil {
				sb.WriteRune(c.r)
				continue
			}
			sb.WriteString(c.style.Render(string(c.r)))
		}
		if y < g.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// renderDonut draws the ring, the center caption and one label per
// placement. Angles run clockwise from 12 o'clock.
func (m FillerChartModel) renderDonut(v filler.ChartView, width int) string {
	// Labels can extend one line past the frame on either side.
	rows := int(math.Ceil(m.layout.MaxHeight/cellHeightPt)) + 2
	g := newGrid(width, rows)
	cx := float64(width) / 2
	cy := float64(rows) / 2

	inner := v.ChartSize * innerRingRatio
	outer := v.ChartSize * outerRingRatio

	type arc struct {
		end   float64
		style lipgloss.Style
	}
	var arcs []arc
	theta := 0.0
	si := 0
	for _, b := range v.Buckets {
		if b.Value <= 0 {
			continue
		}
		theta += v.Spans[si]
		si++
		arcs = append(arcs, arc{end: theta, style: lipgloss.NewStyle().Foreground(RampColor(b.Color))})
	}

	for y := 0; y < rows && len(arcs) > 0; y++ {
		for x := 0; x < width; x++ {
			dx := (float64(x) + 0.5 - cx) * cellWidthPt
			dy := (float64(y) + 0.5 - cy) * cellHeightPt
			r := math.Hypot(dx, dy)
			if r < inner || r > outer {
				continue
			}
			a := math.Atan2(dx, -dy)
			if a < 0 {
				a += 2 * math.Pi
			}
			st := arcs[len(arcs)-1].style
			for _, ar := range arcs {
				if a <= ar.end {
					st = ar.style
					break
				}
			}
			g.cells[y][x] = cell{r: '█', style: &st}
		}
	}

	mid := int(cy)
	if v.Empty() {
		g.text(int(cx), mid-1, "사용된 습관어가", m.styles.EmptyMessage)
		g.text(int(cx), mid, "없어요!", m.styles.EmptyMessage)
		return g.String()
	}

	g.text(int(cx), mid-1, fmt.Sprintf("%d가지", v.TypeCount), m.styles.CenterCount)
	g.text(int(cx), mid, "습관어", m.styles.CenterLabel)

	for _, p := range v.Placements {
		lx := int(math.Round(cx + p.OffsetX/cellWidthPt))
		ly := int(math.Round(cy + p.OffsetY/cellHeightPt))
		g.text(lx, ly-1, p.Word, m.styles.LabelWord)
		g.text(lx, ly, fmt.Sprintf("%d회", p.Value), m.styles.LabelCount)
	}
	return g.String()
}
