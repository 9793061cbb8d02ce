// Package views holds the planner view of the TUI.
package views

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JustNello/punctual/internal/cli"
	"github.com/JustNello/punctual/internal/entry"
	"github.com/JustNello/punctual/internal/schedule"
	"github.com/JustNello/punctual/internal/timeutil"
	"github.com/JustNello/punctual/internal/tui/ui"
)

// Planner builds a schedule from entry lines
type Planner interface {
	Plan(ctx context.Context, lines []string, start *time.Time) (*schedule.Schedule, error)
}

var placeholders = []string{
	"2h33m",
	"1h",
	"45m",
	"Colosseo, Roma, Italia -> Piazza della Repubblica 00185, Roma RM",
	"Eating pizza",
}

// RandomPlaceholder returns an example activity for the empty activity input
func RandomPlaceholder() string {
	return placeholders[rand.IntN(len(placeholders))]
}

type field int

const (
	fieldActivity field = iota
	fieldStart
)

// PlannerOptions configures a PlannerModel
type PlannerOptions struct {
	Planner     Planner
	Syntax      entry.Syntax
	Placeholder string
	// Clipboard receives the text report on copy; nil disables copying
	Clipboard func(text string) error
	Now       func() time.Time
}

// PlannerModel is the activity form and the schedule built from every
// activity submitted during the session
type PlannerModel struct {
	opts   PlannerOptions
	styles ui.Styles
	keys   ui.KeyMap

	activity textinput.Model
	start    textinput.Model
	focus    field

	lines    []string
	schedule *schedule.Schedule
	planning bool
	// seq increases with every plan request or reset
	seq int

	message      string
	messageStyle lipgloss.Style

	width int
}

// NewPlannerModel creates the planner view
func NewPlannerModel(opts PlannerOptions, styles ui.Styles, keys ui.KeyMap) PlannerModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Placeholder == "" {
		opts.Placeholder = RandomPlaceholder()
	}

	activity := textinput.New()
	activity.Placeholder = opts.Placeholder
	activity.CharLimit = 200
	activity.Width = 56
	activity.Focus()

	start := textinput.New()
	start.Placeholder = "HH:MM (optional)"
	start.CharLimit = 5
	start.Width = 16

	return PlannerModel{
		opts:     opts,
		styles:   styles,
		keys:     keys,
		activity: activity,
		start:    start,
	}
}

// Init implements tea.Model
func (m PlannerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m PlannerModel) Update(msg tea.Msg) (PlannerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
			return m.toggleFocus(), textinput.Blink
		case key.Matches(msg, m.keys.Undo):
			if len(m.lines) == 0 {
				return m, nil
			}
			return m.plan(m.lines[:len(m.lines)-1])
		case key.Matches(msg, m.keys.Reset):
			m.lines = nil
			m.schedule = nil
			m.planning = false
			m.seq++
			m.setMessage("Schedule cleared", m.styles.Success)
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if len(m.lines) == 0 {
				return m, nil
			}
			return m.plan(m.lines)
		case key.Matches(msg, m.keys.Copy):
			return m.copy()
		}

	case ui.PlannedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.planning = false
		if msg.Err != nil {
			m.setMessage(fmt.Sprintf("Error: %v", msg.Err), m.styles.Error)
			return m, nil
		}
		m.lines = msg.Lines
		m.schedule = msg.Schedule
		m.setMessage("", m.styles.Success)
		if unresolved := m.unresolved(); unresolved > 0 {
			m.setMessage(fmt.Sprintf("No duration found for %d %s", unresolved, cli.Pluralize("entry", unresolved)), m.styles.Warning)
		}
		return m, nil

	case ui.CopiedMsg:
		if msg.Err != nil {
			m.setMessage(fmt.Sprintf("Error: failed to copy report: %v", msg.Err), m.styles.Error)
		} else {
			m.setMessage("Report copied to clipboard", m.styles.Success)
		}
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == fieldActivity {
		m.activity, cmd = m.activity.Update(msg)
	} else {
		m.start, cmd = m.start.Update(msg)
	}
	return m, cmd
}

func (m PlannerModel) submit() (PlannerModel, tea.Cmd) {
	activity := strings.TrimSpace(m.activity.Value())
	if activity == "" {
		m.setMessage("Please enter a value to enable scheduling", m.styles.Warning)
		return m, nil
	}

	line := activity
	if value := strings.TrimSpace(m.start.Value()); value != "" {
		at, err := timeutil.ParseClock(value, m.opts.Now())
		if err != nil {
			m.setMessage(fmt.Sprintf("Error: %v", err), m.styles.Error)
			return m, nil
		}
		line = fmt.Sprintf("%s%s %s", activity, m.opts.Syntax.DetailSeparator, timeutil.FormatClock(at))
	}

	m.activity.SetValue("")
	m.start.SetValue("")
	if m.focus != fieldActivity {
		m = m.toggleFocus()
	}

	lines := append(append([]string(nil), m.lines...), line)
	return m.plan(lines)
}

func (m PlannerModel) plan(lines []string) (PlannerModel, tea.Cmd) {
	m.seq++
	if len(lines) == 0 {
		m.lines = nil
		m.schedule = nil
		m.planning = false
		return m, nil
	}

	m.planning = true
	planner := m.opts.Planner
	seq := m.seq
	lines = append([]string(nil), lines...)
	return m, func() tea.Msg {
		s, err := planner.Plan(context.Background(), lines, nil)
		return ui.PlannedMsg{Seq: seq, Lines: lines, Schedule: s, Err: err}
	}
}

func (m PlannerModel) copy() (PlannerModel, tea.Cmd) {
	text, ok := m.ReportText()
	if !ok {
		m.setMessage("Nothing to copy yet", m.styles.Warning)
		return m, nil
	}
	if m.opts.Clipboard == nil {
		m.setMessage("Clipboard is not available", m.styles.Warning)
		return m, nil
	}

	clipboard := m.opts.Clipboard
	return m, func() tea.Msg {
		return ui.CopiedMsg{Err: clipboard(text)}
	}
}

func (m PlannerModel) toggleFocus() PlannerModel {
	if m.focus == fieldActivity {
		m.focus = fieldStart
		m.activity.Blur()
		m.start.Focus()
	} else {
		m.focus = fieldActivity
		m.start.Blur()
		m.activity.Focus()
	}
	return m
}

func (m *PlannerModel) setMessage(text string, style lipgloss.Style) {
	m.message = text
	m.messageStyle = style
}

func (m PlannerModel) unresolved() int {
	if m.schedule == nil {
		return 0
	}
	count := 0
	for _, e := range m.schedule.Entries() {
		if e.Unresolved() {
			count++
		}
	}
	return count
}

// Lines returns the activities scheduled so far
func (m PlannerModel) Lines() []string {
	return append([]string(nil), m.lines...)
}

// Schedule returns the current schedule, nil when nothing is scheduled
func (m PlannerModel) Schedule() *schedule.Schedule {
	return m.schedule
}

// Message returns the last feedback message
func (m PlannerModel) Message() string {
	return m.message
}

// ReportText renders the current schedule as the plain text report
func (m PlannerModel) ReportText() (string, bool) {
	if m.schedule == nil || m.schedule.Empty() {
		return "", false
	}
	report, err := m.schedule.Report()
	if err != nil {
		return "", false
	}

	var b strings.Builder
	if err := cli.RenderText(&b, report); err != nil {
		return "", false
	}
	return b.String(), true
}

// SetSize sets the available width
func (m *PlannerModel) SetSize(width, height int) {
	m.width = width
}

// View implements tea.Model
func (m PlannerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("punctual"))
	b.WriteString("\n")
	b.WriteString(m.renderInput("Activity", m.activity, m.focus == fieldActivity))
	b.WriteString("\n")
	b.WriteString(m.renderInput("Start time", m.start, m.focus == fieldStart))
	b.WriteString("\n")

	switch {
	case m.planning:
		b.WriteString(m.styles.Empty.Render("Scheduling..."))
	case m.message != "":
		b.WriteString(m.messageStyle.Render(m.message))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderSchedule())
	return b.String()
}

func (m PlannerModel) renderInput(label string, input textinput.Model, focused bool) string {
	style := m.styles.Input
	if focused {
		style = m.styles.InputFocused
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Label.Render(label),
		style.Render(input.View()))
}

func (m PlannerModel) renderSchedule() string {
	if m.schedule == nil || m.schedule.Empty() {
		return m.styles.Empty.Render("No activities scheduled yet")
	}

	start, _ := m.schedule.Start()
	end, _ := m.schedule.End()

	var b strings.Builder
	b.WriteString(m.styles.Total.Render(fmt.Sprintf("Total time required: %s", cli.FormatElapsedTime(m.schedule.Total()))))
	b.WriteString("\n")
	b.WriteString(m.styles.Span.Render(fmt.Sprintf("From %s to %s", timeutil.FormatClock(start), timeutil.FormatClock(end))))
	b.WriteString("\n\n")

	for _, e := range m.schedule.Entries() {
		b.WriteString(m.renderEntry(e))
		b.WriteString("\n")
	}
	return b.String()
}

func (m PlannerModel) renderEntry(e schedule.Entry) string {
	span := fmt.Sprintf("%s-%s", timeutil.FormatClock(e.Start()), timeutil.FormatClock(e.End()))
	duration := m.styles.EntryDuration.Render(cli.FormatElapsedTime(e.Duration()))

	extra := m.styles.Spare.Render("")
	switch {
	case e.Extra() > 0:
		extra = m.styles.Spare.Render(cli.FormatExtra(e.Extra()))
	case e.Extra() < 0:
		extra = m.styles.Overlap.Render(cli.FormatExtra(e.Extra()))
	}

	name := m.styles.EntryName.Render(e.Name())
	if e.Fixed() {
		name += " " + m.styles.EntryFixed.Render("(fixed)")
	}
	if e.Unresolved() {
		name += " " + m.styles.EntryUnresolved.Render("?")
	}

	return fmt.Sprintf("%s %s  %s  %s", m.styles.EntryTime.Render(span), duration, extra, name)
}
