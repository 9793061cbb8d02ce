package ui

import "github.com/JustNello/punctual/internal/schedule"

// PlannedMsg is sent when a schedule has been rebuilt from Lines. Seq
// identifies the request; replies to superseded requests are ignored.
type PlannedMsg struct {
	Seq      int
	Lines    []string
	Schedule *schedule.Schedule
	Err      error
}

// CopiedMsg is sent after the report was written to the clipboard
type CopiedMsg struct {
	Err error
}

// ThemeChangedMsg is broadcast to views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}
