package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highpitch/internal/filler"
	"highpitch/internal/store"
)

func sampleSession() *store.Session {
	return &store.Session{
		ID:           "s-1",
		Title:        "발표 연습",
		StartedAt:    time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		TotalFillers: 13,
		Words: []filler.FillerWordRecord{
			{Word: "음", Count: 5},
			{Word: "어", Count: 3},
			{Word: "그", Count: 2},
			{Word: "저", Count: 1},
			{Word: "뭐", Count: 1},
			{Word: "아", Count: 1},
		},
	}
}

func newTestChart(t *testing.T) FillerChartModel {
	t.Helper()
	m := NewFillerChartModel(filler.DefaultLayout(), NewStyles(LightTheme()), NewResizeDebouncer(0))
	t.Cleanup(m.Close)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

func TestFillerChartPage_RendersBucketsAndLabels(t *testing.T) {
	m := newTestChart(t)
	m, _ = m.Update(SessionLoadedMsg{Session: sampleSession()})

	view := m.ChartView()
	require.Len(t, view.Buckets, filler.MaxBuckets)
	assert.Equal(t, 6, view.TypeCount)
	assert.Equal(t, filler.OtherWord, view.Buckets[4].Word)
	assert.Equal(t, 2, view.Buckets[4].Value)
	assert.Len(t, view.Placements, 5)

	out := plain(m.View())
	for _, want := range []string{
		"습관어 종류 및 횟수",
		"이번 연습에서 자주 언급된 습관어에요.",
		"발표 연습",
		"6가지",
		"음", "5회", "어", "3회", "기타", "2회",
		"█",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFillerChartPage_EmptySession(t *testing.T) {
	m := newTestChart(t)
	m.SetSession(&store.Session{ID: "empty"})

	view := m.ChartView()
	require.Len(t, view.Buckets, 1)
	assert.True(t, view.Buckets[0].Placeholder)
	assert.Empty(t, view.Placements)

	out := plain(m.View())
	assert.Contains(t, out, "사용된 습관어가")
	assert.Contains(t, out, "없어요!")
	assert.NotContains(t, out, "가지")
	// The placeholder still draws a full ring.
	assert.Contains(t, out, "█")
}

func TestFillerChartPage_LoadError(t *testing.T) {
	m := newTestChart(t)
	m, _ = m.Update(SessionLoadedMsg{Err: errors.New("boom")})
	assert.Nil(t, m.Session())
	assert.Contains(t, plain(m.View()), "boom")
}

func TestFillerChartPage_CopySummary(t *testing.T) {
	var copied string
	old := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		copied = s
		return nil
	}
	defer func() { clipboardWriteAll = old }()

	m := newTestChart(t)
	m.SetSession(sampleSession())
	m, _ = m.Update(runes("c"))

	assert.Equal(t, "6가지 습관어: 음 5회, 어 3회, 그 2회, 저 1회, 기타 2회", copied)
	assert.Contains(t, plain(m.View()), "요약을 클립보드에 복사했어요")
}

func TestFillerChartPage_CopyFailure(t *testing.T) {
	old := clipboardWriteAll
	clipboardWriteAll = func(string) error { return errors.New("no clipboard") }
	defer func() { clipboardWriteAll = old }()

	m := newTestChart(t)
	m, _ = m.Update(runes("c"))
	assert.Contains(t, plain(m.View()), "클립보드에 복사하지 못했어요")
}

func TestFillerChartPage_BackAndQuit(t *testing.T) {
	m := newTestChart(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())

	_, cmd = m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestFillerChartPage_ResizeIsDebounced(t *testing.T) {
	m := newTestChart(t)
	m.SetSession(sampleSession())
	wide := m.ChartView()
	assert.False(t, filler.DefaultLayout().Narrow(wide.Width))

	// A later resize only applies once its settle message arrives.
	m, cmd := m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	require.NotNil(t, cmd)
	assert.Equal(t, wide.Width, m.ChartView().Width)

	m, _ = m.Update(cmd())
	narrow := m.ChartView()
	assert.True(t, filler.DefaultLayout().Narrow(narrow.Width))
	assert.Greater(t, narrow.Radius, wide.Radius)
	assert.Greater(t, narrow.ChartSize, wide.ChartSize)
}

func TestRenderDonut_FitsGrid(t *testing.T) {
	m := newTestChart(t)
	m.SetSession(sampleSession())

	out := m.renderDonut(m.ChartView(), 60)
	lines := splitLines(plain(out))
	assert.Len(t, lines, 16)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
