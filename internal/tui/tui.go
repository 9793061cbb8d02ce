// Package tui provides the Terminal User Interface for the punctual planner.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JustNello/punctual/internal/entry"
	"github.com/JustNello/punctual/internal/tui/ui"
	"github.com/JustNello/punctual/internal/tui/views"
)

// Options configures the TUI
type Options struct {
	Planner   views.Planner
	Syntax    entry.Syntax
	Theme     string
	Clipboard func(text string) error
	Now       func() time.Time
}

// Model is the root TUI model
type Model struct {
	width, height int
	showHelp      bool

	planner views.PlannerModel
	help    help.Model

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model
func New(opts Options) Model {
	themeProvider := ui.NewThemeProvider(opts.Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		help:          help.New(),
		planner: views.NewPlannerModel(views.PlannerOptions{
			Planner:   opts.Planner,
			Syntax:    opts.Syntax,
			Clipboard: opts.Clipboard,
			Now:       opts.Now,
		}, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.planner.Init()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.planner, cmd = m.planner.Update(msg)
	return m, cmd
}

// handleGlobalKey consumes keys that act on the whole program rather than the planner.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return true, nil
	case key.Matches(msg, m.keys.Theme):
		m.cycleTheme()
		return true, nil
	}
	return false, nil
}

func (m *Model) cycleTheme() {
	m.themeProvider.NextTheme()
	m.styles = m.themeProvider.Styles()
	m.planner, _ = m.planner.Update(ui.ThemeChangedMsg{
		ThemeName: m.themeProvider.CurrentName(),
		Styles:    m.styles,
	})
}

// resize reserves the bottom rows for the status bar.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.planner.SetSize(width, height-2)
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.planner.View(), m.renderStatusBar()}
	if m.showHelp {
		sections = append(sections, m.help.View(m.keys))
	}
	return m.styles.App.Render(strings.Join(sections, "\n"))
}

func (m Model) renderStatusBar() string {
	bindings := []key.Binding{m.keys.Submit, m.keys.Undo, m.keys.Copy, m.keys.Help, m.keys.Quit}
	parts := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, m.styles.StatusKey.Render(h.Key)+" "+m.styles.StatusHelp.Render(h.Desc))
	}
	parts = append(parts, m.styles.StatusHelp.Render("theme: "+m.themeProvider.CurrentDisplayName()))

	bar := strings.Join(parts, "  ")
	if gap := m.width - lipgloss.Width(bar); gap > 0 {
		bar += strings.Repeat(" ", gap)
	}
	return m.styles.StatusBar.Render(bar)
}

// Run starts the TUI application
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
