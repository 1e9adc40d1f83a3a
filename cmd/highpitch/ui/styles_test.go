package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"highpitch/internal/filler"
)

func TestRampColor(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#7B4CF5"), RampColor(filler.ColorBase))
	assert.Equal(t, lipgloss.Color("#EEE8FE"), RampColor(filler.ColorLightnest))
	assert.Equal(t, lipgloss.Color("#D9D9DE"), RampColor(filler.ColorNone))
}

func TestThemeByName(t *testing.T) {
	assert.False(t, ThemeByName("light").IsDark)
	assert.True(t, ThemeByName("DARK").IsDark)
}

func TestDetectTheme(t *testing.T) {
	t.Setenv("HIGHPITCH_DARK_MODE", "")

	t.Setenv("COLORFGBG", "15;0")
	assert.True(t, DetectTheme().IsDark)

	t.Setenv("COLORFGBG", "0;15")
	assert.False(t, DetectTheme().IsDark)

	t.Setenv("COLORFGBG", "")
	t.Setenv("HIGHPITCH_DARK_MODE", "1")
	assert.True(t, DetectTheme().IsDark)
}

func TestNewStyles_UsesThemePrimary(t *testing.T) {
	s := NewStyles(DarkTheme())
	assert.True(t, s.Theme.IsDark)
	assert.Equal(t, lipgloss.TerminalColor(DarkTheme().Primary), s.PillOn.GetForeground())
}
