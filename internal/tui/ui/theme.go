package ui

import (
	tint "github.com/lrstanley/bubbletint"
)

// DefaultTheme is used when no theme is configured or the configured one is unknown
const DefaultTheme = "dracula"

// ThemeProvider holds the bubbletint registry the planner draws its colors from
type ThemeProvider struct {
	registry *tint.Registry
}

// NewThemeProvider creates a ThemeProvider starting at theme, or at
// DefaultTheme when theme is empty or unknown
func NewThemeProvider(theme string) *ThemeProvider {
	tints := tint.DefaultTints()

	fallback := tints[0]
	for _, t := range tints {
		if t.ID() == DefaultTheme {
			fallback = t
			break
		}
	}

	registry := tint.NewRegistry(fallback, tints...)
	if theme != "" {
		registry.SetTintID(theme)
	}
	return &ThemeProvider{registry: registry}
}

// SetTheme switches to the theme with the given id and reports whether it exists
func (tp *ThemeProvider) SetTheme(id string) bool {
	return tp.registry.SetTintID(id)
}

// NextTheme cycles to the next theme and returns its id
func (tp *ThemeProvider) NextTheme() string {
	tp.registry.NextTint()
	return tp.registry.ID()
}

// CurrentName returns the id of the current theme
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

// CurrentDisplayName returns the human readable name of the current theme
func (tp *ThemeProvider) CurrentDisplayName() string {
	return tp.registry.DisplayName()
}

// Styles returns styles for the current theme
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
