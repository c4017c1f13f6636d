package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"photoprep/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
	Warn  bool
}

// SummaryRows turns a run summary into the table shown after a run.
func SummaryRows(s processor.Summary) []SummaryRow {
	attempted := "Files attempted"
	written := "Files written"
	if s.DryRun {
		written = "Files planned"
	}

	rows := []SummaryRow{
		{Label: attempted, Value: fmt.Sprintf("%d", s.Total)},
		{Label: written, Value: fmt.Sprintf("%d", s.Processed)},
		{Label: "Failures", Value: fmt.Sprintf("%d", s.Errors), Warn: s.Errors > 0},
	}
	if !s.DryRun {
		rows = append(rows, SummaryRow{Label: "Bytes written", Value: fmt.Sprintf("%d", s.BytesWritten)})
	}
	if s.Manifest != "" {
		rows = append(rows, SummaryRow{Label: "Manifest rows", Value: fmt.Sprintf("%d", len(s.Rows))})
	}
	return rows
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		style := valueStyle
		if row.Warn {
			style = warnStyle
		}
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), style.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
)
