package views

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JustNello/punctual/internal/entry"
	"github.com/JustNello/punctual/internal/schedule"
	"github.com/JustNello/punctual/internal/tui/ui"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fakePlanner struct {
	err   error
	calls [][]string
}

func (f *fakePlanner) Plan(_ context.Context, lines []string, _ *time.Time) (*schedule.Schedule, error) {
	f.calls = append(f.calls, lines)
	if f.err != nil {
		return nil, f.err
	}
	s := schedule.NewWithClock(func() time.Time { return testNow })
	for _, line := range lines {
		s.Append(line, 30*time.Minute, nil)
	}
	return s, nil
}

func newTestPlanner(planner Planner, clipboard func(string) error) PlannerModel {
	return NewPlannerModel(PlannerOptions{
		Planner:     planner,
		Syntax:      entry.DefaultSyntax(),
		Placeholder: "1h",
		Clipboard:   clipboard,
		Now:         func() time.Time { return testNow },
	}, ui.DefaultStyles(), ui.DefaultKeyMap())
}

func typeText(m PlannerModel, text string) PlannerModel {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// run executes cmd and feeds the resulting message back into the model
func run(t *testing.T, m PlannerModel, cmd tea.Cmd) PlannerModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = m.Update(cmd())
	return m
}

func submit(t *testing.T, m PlannerModel, activity string) PlannerModel {
	t.Helper()
	m = typeText(m, activity)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return run(t, m, cmd)
}

func TestNewPlannerModel(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, nil)

	if m.Schedule() != nil {
		t.Error("expected no schedule initially")
	}
	if len(m.Lines()) != 0 {
		t.Errorf("expected no lines, got %v", m.Lines())
	}
	if m.Init() == nil {
		t.Error("expected Init to return the blink command")
	}
	if !strings.Contains(m.View(), "No activities scheduled yet") {
		t.Error("expected empty schedule hint in view")
	}
}

func TestRandomPlaceholder(t *testing.T) {
	for range 10 {
		if p := RandomPlaceholder(); !slices.Contains(placeholders, p) {
			t.Errorf("unexpected placeholder %q", p)
		}
	}
}

func TestPlannerModel_SubmitEmpty(t *testing.T) {
	planner := &fakePlanner{}
	m := newTestPlanner(planner, nil)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty activity")
	}
	if m.Message() != "Please enter a value to enable scheduling" {
		t.Errorf("unexpected message %q", m.Message())
	}
	if len(planner.calls) != 0 {
		t.Error("expected planner not to be called")
	}
}

func TestPlannerModel_Submit(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, nil)

	m = submit(t, m, "1h")
	m = submit(t, m, "Eating pizza")

	if got := m.Lines(); !slices.Equal(got, []string{"1h", "Eating pizza"}) {
		t.Errorf("Lines() = %v", got)
	}
	if m.Schedule().Len() != 2 {
		t.Errorf("expected 2 entries, got %d", m.Schedule().Len())
	}
	if m.activity.Value() != "" {
		t.Errorf("expected activity input to be cleared, got %q", m.activity.Value())
	}

	view := m.View()
	for _, want := range []string{"Total time required", "09:00-09:30", "Eating pizza"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestPlannerModel_SubmitWithStartTime(t *testing.T) {
	planner := &fakePlanner{}
	m := newTestPlanner(planner, nil)

	m = typeText(m, "Dinner")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldStart {
		t.Fatal("expected focus on start field after tab")
	}
	m = typeText(m, "9:05")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)

	if got := m.Lines(); !slices.Equal(got, []string{"Dinner; 09:05"}) {
		t.Errorf("Lines() = %v", got)
	}
	if m.focus != fieldActivity {
		t.Error("expected focus back on activity field")
	}
}

func TestPlannerModel_SubmitInvalidStartTime(t *testing.T) {
	planner := &fakePlanner{}
	m := newTestPlanner(planner, nil)

	m = typeText(m, "Dinner")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "25:99")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no command for an invalid start time")
	}
	if !strings.HasPrefix(m.Message(), "Error:") {
		t.Errorf("expected error message, got %q", m.Message())
	}
	if m.activity.Value() != "Dinner" {
		t.Error("expected inputs to be kept on error")
	}
}

func TestPlannerModel_PlanErrorKeepsLines(t *testing.T) {
	planner := &fakePlanner{}
	m := newTestPlanner(planner, nil)
	m = submit(t, m, "1h")

	planner.err = errors.New("service unavailable")
	m = submit(t, m, "Colosseo -> Termini")

	if got := m.Lines(); !slices.Equal(got, []string{"1h"}) {
		t.Errorf("Lines() = %v", got)
	}
	if !strings.Contains(m.Message(), "service unavailable") {
		t.Errorf("unexpected message %q", m.Message())
	}
	if m.Schedule().Len() != 1 {
		t.Error("expected previous schedule to be kept")
	}
}

func TestPlannerModel_Undo(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, nil)
	m = submit(t, m, "1h")
	m = submit(t, m, "45m")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	m = run(t, m, cmd)
	if got := m.Lines(); !slices.Equal(got, []string{"1h"}) {
		t.Errorf("Lines() after undo = %v", got)
	}

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	if cmd != nil {
		t.Error("expected no planning for an empty schedule")
	}
	if m.Schedule() != nil || len(m.Lines()) != 0 {
		t.Error("expected schedule to be empty after undoing every line")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ}); cmd != nil {
		t.Error("expected undo on empty schedule to be a no-op")
	}
}

func TestPlannerModel_StalePlanIgnored(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, nil)
	m = submit(t, m, "1h")
	m = submit(t, m, "45m")

	m = typeText(m, "20m")
	m, slow := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, undo := m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})

	// the undo reply arrives first, the older submit reply after it
	m = run(t, m, undo)
	m = run(t, m, slow)

	if got := m.Lines(); !slices.Equal(got, []string{"1h"}) {
		t.Errorf("Lines() = %v, expected the undo result to win", got)
	}
	if got := len(m.Schedule().Entries()); got != 1 {
		t.Errorf("schedule has %d entries, expected 1", got)
	}
}

func TestPlannerModel_ResetDropsPendingPlan(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, nil)
	m = submit(t, m, "1h")

	m = typeText(m, "45m")
	m, pending := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = run(t, m, pending)

	if m.Schedule() != nil || len(m.Lines()) != 0 {
		t.Errorf("expected reset to survive a late reply, got lines %v", m.Lines())
	}
}

func TestPlannerModel_Reset(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, nil)
	m = submit(t, m, "1h")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.Schedule() != nil || len(m.Lines()) != 0 {
		t.Error("expected reset to clear the schedule")
	}
	if m.Message() != "Schedule cleared" {
		t.Errorf("unexpected message %q", m.Message())
	}
}

func TestPlannerModel_Refresh(t *testing.T) {
	planner := &fakePlanner{}
	m := newTestPlanner(planner, nil)

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL}); cmd != nil {
		t.Error("expected refresh without lines to be a no-op")
	}

	m = submit(t, m, "1h")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	run(t, m, cmd)
	if len(planner.calls) != 2 {
		t.Errorf("expected 2 planner calls, got %d", len(planner.calls))
	}
}

func TestPlannerModel_Copy(t *testing.T) {
	var copied string
	m := newTestPlanner(&fakePlanner{}, func(text string) error {
		copied = text
		return nil
	})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd != nil {
		t.Error("expected nothing to copy on an empty schedule")
	}
	if m.Message() != "Nothing to copy yet" {
		t.Errorf("unexpected message %q", m.Message())
	}

	m = submit(t, m, "1h")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = run(t, m, cmd)

	if !strings.HasPrefix(copied, "Total time required:") {
		t.Errorf("unexpected clipboard text %q", copied)
	}
	if m.Message() != "Report copied to clipboard" {
		t.Errorf("unexpected message %q", m.Message())
	}
}

func TestPlannerModel_CopyError(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, func(string) error {
		return errors.New("no clipboard utility")
	})
	m = submit(t, m, "1h")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = run(t, m, cmd)
	if !strings.Contains(m.Message(), "no clipboard utility") {
		t.Errorf("unexpected message %q", m.Message())
	}
}

func TestPlannerModel_CopyWithoutClipboard(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, nil)
	m = submit(t, m, "1h")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd != nil {
		t.Error("expected no command without a clipboard")
	}
	if m.Message() != "Clipboard is not available" {
		t.Errorf("unexpected message %q", m.Message())
	}
}

func TestPlannerModel_ReportText(t *testing.T) {
	m := newTestPlanner(&fakePlanner{}, nil)
	if _, ok := m.ReportText(); ok {
		t.Error("expected no report for an empty schedule")
	}

	m = submit(t, m, "1h")
	text, ok := m.ReportText()
	if !ok {
		t.Fatal("expected a report")
	}
	if !strings.Contains(text, "From 09:00 to 09:30") {
		t.Errorf("unexpected report %q", text)
	}
}
