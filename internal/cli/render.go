package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JustNello/punctual/internal/schedule"
	"github.com/JustNello/punctual/internal/timeutil"
)

// Format selects how a schedule is rendered
type Format string

const (
	FormatTable Format = "table"
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// unresolvedMark follows the duration of entries without a known duration
const unresolvedMark = "?"

var columns = []string{"name", "start_time", "end_time", "duration", "extra", "fixed"}

// ParseFormat validates an output format name (case-insensitive)
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format '%s' (valid: table, text, json, csv)", name)
	}
}

// Render writes report to w in the given format
func Render(w io.Writer, report schedule.Report, format Format) error {
	switch format {
	case FormatTable, "":
		return RenderTable(w, report)
	case FormatText:
		return RenderText(w, report)
	case FormatJSON:
		return RenderJSON(w, report)
	case FormatCSV:
		return RenderCSV(w, report)
	default:
		return fmt.Errorf("unknown output format '%s'", format)
	}
}

// RenderText writes the plain report: a header with the total time and the
// overall span, followed by an aligned table of entries
func RenderText(w io.Writer, report schedule.Report) error {
	rows := rows(report)

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}

	var b strings.Builder
	b.WriteString(header(report))
	writeRow(&b, columns, widths)
	separators := make([]string, len(columns))
	for i, width := range widths {
		separators[i] = strings.Repeat("-", width)
	}
	writeRow(&b, separators, widths)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderTable writes the report as a bordered lipgloss table
func RenderTable(w io.Writer, report schedule.Report) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	spareStyle := cellStyle.Foreground(lipgloss.Color("2"))
	overlapStyle := cellStyle.Foreground(lipgloss.Color("1"))

	records := report.Entries
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows(report)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 && row >= 0 && row < len(records) {
				switch extra := records[row].ExtraMinutes; {
				case extra > 0:
					return spareStyle
				case extra < 0:
					return overlapStyle
				}
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "%s%s\n", header(report), t.Render())
	return err
}

// RenderJSON writes the report as indented JSON
func RenderJSON(w io.Writer, report schedule.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// RenderCSV writes one row per entry with full timestamps and minute counts
func RenderCSV(w io.Writer, report schedule.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"name", "start_time", "end_time", "duration_minutes", "extra_minutes", "fixed", "unresolved"}); err != nil {
		return err
	}
	for _, r := range report.Entries {
		if err := writer.Write([]string{
			r.Name,
			r.StartTime.Format(timeutil.DateTimeLayout),
			r.EndTime.Format(timeutil.DateTimeLayout),
			strconv.FormatFloat(r.DurationMinutes, 'f', -1, 64),
			strconv.FormatFloat(r.ExtraMinutes, 'f', -1, 64),
			strconv.FormatBool(r.Fixed),
			strconv.FormatBool(r.Unresolved),
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func header(report schedule.Report) string {
	return fmt.Sprintf("Total time required: %d minutes\nFrom %s to %s\n",
		int(math.Round(report.TotalDurationMinutes)),
		timeutil.FormatClock(report.StartTime),
		timeutil.FormatClock(report.EndTime))
}

func rows(report schedule.Report) [][]string {
	rows := make([][]string, 0, len(report.Entries))
	for _, r := range report.Entries {
		rows = append(rows, row(r))
	}
	return rows
}

func row(r schedule.Record) []string {
	duration := FormatElapsedTime(minutes(r.DurationMinutes))
	if r.Unresolved {
		duration += " " + unresolvedMark
	}
	return []string{
		r.Name,
		timeutil.FormatClock(r.StartTime),
		timeutil.FormatClock(r.EndTime),
		duration,
		FormatExtra(minutes(r.ExtraMinutes)),
		strconv.FormatBool(r.Fixed),
	}
}

func minutes(n float64) time.Duration {
	return time.Duration(n * float64(time.Minute))
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i == len(cells)-1 {
			b.WriteString(cell)
			break
		}
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-len([]rune(cell))+2))
	}
	b.WriteString("\n")
}
