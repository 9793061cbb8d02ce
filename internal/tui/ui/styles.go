package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used by the planner
type Styles struct {
	App   lipgloss.Style
	Title lipgloss.Style

	// Form
	Label        lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Report header
	Total lipgloss.Style
	Span  lipgloss.Style

	// Schedule rows
	EntryName       lipgloss.Style
	EntryTime       lipgloss.Style
	EntryDuration   lipgloss.Style
	EntryFixed      lipgloss.Style
	EntryUnresolved lipgloss.Style
	Spare           lipgloss.Style
	Overlap         lipgloss.Style
	Empty           lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Feedback
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

type palette struct {
	primary   lipgloss.TerminalColor
	secondary lipgloss.TerminalColor
	accent    lipgloss.TerminalColor
	muted     lipgloss.TerminalColor
	success   lipgloss.TerminalColor
	warning   lipgloss.TerminalColor
	danger    lipgloss.TerminalColor
	fg        lipgloss.TerminalColor
	bg        lipgloss.TerminalColor
}

// DefaultStyles returns styles built on the 256 color palette
func DefaultStyles() Styles {
	return newStyles(palette{
		primary:   lipgloss.Color("99"),
		secondary: lipgloss.Color("39"),
		accent:    lipgloss.Color("212"),
		muted:     lipgloss.Color("240"),
		success:   lipgloss.Color("82"),
		warning:   lipgloss.Color("214"),
		danger:    lipgloss.Color("196"),
		fg:        lipgloss.Color("252"),
		bg:        lipgloss.Color("236"),
	})
}

// NewStylesFromRegistry creates styles from the current bubbletint theme:
// purple for titles and focus, cyan for times, green for spare time and red
// for overlaps
func NewStylesFromRegistry(r *tint.Registry) Styles {
	return newStyles(palette{
		primary:   r.Purple(),
		secondary: r.Cyan(),
		accent:    r.BrightPurple(),
		muted:     r.BrightBlack(),
		success:   r.Green(),
		warning:   r.Yellow(),
		danger:    r.Red(),
		fg:        r.Fg(),
		bg:        r.Bg(),
	})
}

func newStyles(p palette) Styles {
	input := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.muted).
		Padding(0, 1).
		Width(60)

	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),
		Title: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(12),
		Input:        input,
		InputFocused: input.BorderForeground(p.primary),

		Total: lipgloss.NewStyle().
			Foreground(p.fg).
			Bold(true),
		Span: lipgloss.NewStyle().
			Foreground(p.secondary),

		EntryName: lipgloss.NewStyle().
			Foreground(p.fg),
		EntryTime: lipgloss.NewStyle().
			Foreground(p.secondary).
			Width(14),
		EntryDuration: lipgloss.NewStyle().
			Foreground(p.accent).
			Width(10).
			Align(lipgloss.Right),
		EntryFixed: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		EntryUnresolved: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		Spare: lipgloss.NewStyle().
			Foreground(p.success).
			Width(10),
		Overlap: lipgloss.NewStyle().
			Foreground(p.danger).
			Width(10),
		Empty: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.bg).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(p.muted),

		Error: lipgloss.NewStyle().
			Foreground(p.danger),
		Warning: lipgloss.NewStyle().
			Foreground(p.warning),
		Success: lipgloss.NewStyle().
			Foreground(p.success),
	}
}
