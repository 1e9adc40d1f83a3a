package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultResizeDuration is the recommended debounce duration for resize events
const DefaultResizeDuration = 300 * time.Millisecond

// resizeSettledMsg fires when a debounced resize may have settled. Only the
// message carrying the latest sequence number is acted on.
type resizeSettledMsg struct {
	owner  *ResizeDebouncer
	seq    int
	width  int
	height int
}

// ResizeDebouncer collapses bursts of tea.WindowSizeMsg into one layout
// pass. It works inside the bubbletea update loop: Resize returns a tick
// command and Settled filters the resulting messages.
type ResizeDebouncer struct {
	mu         sync.Mutex
	duration   time.Duration
	seq        int
	lastWidth  int
	lastHeight int
}

// NewResizeDebouncer creates a debouncer optimized for resize events
func NewResizeDebouncer(duration time.Duration) *ResizeDebouncer {
	if duration < 0 {
		duration = 0
	}
	return &ResizeDebouncer{duration: duration}
}

// Resize records a pending size and returns the command that will report it.
func (rd *ResizeDebouncer) Resize(width, height int) tea.Cmd {
	rd.mu.Lock()
	rd.seq++
	msg := resizeSettledMsg{owner: rd, seq: rd.seq, width: width, height: height}
	d := rd.duration
	rd.mu.Unlock()

	if d == 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Settled reports the size carried by msg if it is this debouncer's latest
// pending resize.
func (rd *ResizeDebouncer) Settled(msg tea.Msg) (width, height int, ok bool) {
	m, isResize := msg.(resizeSettledMsg)
	if !isResize || m.owner != rd {
		return 0, 0, false
	}

	rd.mu.Lock()
	defer rd.mu.Unlock()
	if m.seq != rd.seq {
		return 0, 0, false
	}
	rd.lastWidth, rd.lastHeight = m.width, m.height
	return m.width, m.height, true
}

// GetLastSize returns the last processed size
func (rd *ResizeDebouncer) GetLastSize() (width, height int) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.lastWidth, rd.lastHeight
}

// Cancel drops any pending resize.
func (rd *ResizeDebouncer) Cancel() {
	rd.mu.Lock()
	rd.seq++
	rd.mu.Unlock()
}
