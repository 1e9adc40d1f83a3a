// Package ui provides the terminal screens of highpitch: the onboarding
// tour, the filler word chart and the session browser.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"highpitch/internal/filler"
)

var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#FFFFFF")
	LightForeground = lipgloss.Color("#2B2B33")
	LightDarker     = lipgloss.Color("#16161C")
	LightMuted      = lipgloss.Color("#8E8E99")
	LightBorder     = lipgloss.Color("#E4E4EA")
	LightSystem200  = lipgloss.Color("#D9D9DE")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#1C1B22")
	DarkForeground = lipgloss.Color("#EDEDF2")
	DarkDarker     = lipgloss.Color("#FFFFFF")
	DarkMuted      = lipgloss.Color("#8E8E99")
	DarkBorder     = lipgloss.Color("#34333D")
	DarkSystem200  = lipgloss.Color("#3F3E48")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#E5484D")
	Success     = lipgloss.Color("#30A46C")
)

// RampColor returns the terminal color for a chart color token.
func RampColor(c filler.ColorToken) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Darker     lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Inactive   lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Darker:     LightDarker,
		Primary:    RampColor(filler.ColorBase),
		Muted:      LightMuted,
		Border:     LightBorder,
		Inactive:   LightSystem200,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Darker:     DarkDarker,
		Primary:    RampColor(filler.ColorLight),
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Inactive:   DarkSystem200,
		IsDark:     true,
	}
}

// ThemeByName resolves "light", "dark" or anything else (auto-detect).
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}
	return DetectTheme()
}

// DetectTheme guesses the terminal background, defaulting to light.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		// "foreground;background"; ANSI 0-6 and 8 are dark backgrounds.
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("HIGHPITCH_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style
	Pane    lipgloss.Style
	Stage   lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style

	// Onboarding
	Indicator      lipgloss.Style
	PillOn         lipgloss.Style
	PillOff        lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonSecond   lipgloss.Style
	SkipLink       lipgloss.Style
	Notice         lipgloss.Style

	// Chart
	ChartTitle   lipgloss.Style
	CenterCount  lipgloss.Style
	CenterLabel  lipgloss.Style
	LabelWord    lipgloss.Style
	LabelCount   lipgloss.Style
	EmptyMessage lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Darker).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Pane: lipgloss.NewStyle().
			Padding(1, 3),

		Stage: lipgloss.NewStyle().
			Background(RampColor(filler.ColorLightnest)).
			Foreground(LightForeground).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Darker).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Indicator: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			MarginRight(1),

		PillOn: lipgloss.NewStyle().
			Foreground(theme.Primary),

		PillOff: lipgloss.NewStyle().
			Foreground(theme.Inactive),

		Button: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2),

		ButtonDisabled: lipgloss.NewStyle().
			Background(theme.Inactive).
			Foreground(theme.Muted).
			Padding(0, 2),

		ButtonSecond: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Foreground).
			Padding(0, 1),

		SkipLink: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Underline(true),

		Notice: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(1, 3),

		ChartTitle: lipgloss.NewStyle().
			Foreground(theme.Darker).
			Bold(true),

		CenterCount: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		CenterLabel: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		LabelWord: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		LabelCount: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		EmptyMessage: lipgloss.NewStyle().
			Foreground(theme.Foreground),
	}
}

// DefaultStyles returns styles with auto-detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
