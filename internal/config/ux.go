package config

// UIConfig holds user interface configuration.
type UIConfig struct {
	// Theme is "light" or "dark"; empty means detect from the terminal.
	Theme string `yaml:"theme,omitempty"`

	// ResizeDebounce delays chart relayout while the terminal is resized.
	ResizeDebounce string `yaml:"resize_debounce"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		ResizeDebounce: "300ms",
	}
}
