package tui

// Theme captures optional formatting hints applied when printing messages.
// Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	DiffAdded   string
	DiffRemoved string
	DiffContext string
}

// DefaultTheme uses conventional unified-diff markers.
func DefaultTheme() Theme {
	return Theme{
		DiffAdded:   "+",
		DiffRemoved: "-",
		DiffContext: " ",
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies message formatting hints.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
