package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/papapumpkin/critpath/internal/cpm"
)

var (
	colorPrimary  = lipgloss.Color("#00BFFF") // Cyan: headers
	colorCritical = lipgloss.Color("#FF5252") // Red: critical tasks
	colorMuted    = lipgloss.Color("#8C8C8C") // Gray: borders, labels

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	criticalStyle = cellStyle.Foreground(colorCritical).Bold(true)
)

// Headers are the task table column titles shared by the terminal renderers.
var Headers = []string{"Task", "Duration", "EST", "EFT", "LST", "LFT", "Float", "Critical", "Dependencies"}

// Cells formats one row for tabular display.
func Cells(r cpm.Row) []string {
	critical := "No"
	if r.Critical {
		critical = "Yes"
	}
	return []string{
		r.Task,
		FormatDuration(r.Duration),
		FormatDuration(r.EarliestStart),
		FormatDuration(r.EarliestFinish),
		FormatDuration(r.LatestStart),
		FormatDuration(r.LatestFinish),
		FormatDuration(r.Slack),
		critical,
		strings.Join(r.Dependencies, ", "),
	}
}

// SummaryBlock renders the project figures as labelled lines.
func SummaryBlock(summary cpm.Summary, opts Options) string {
	opts = opts.withDefaults()
	path := summary.PathString(opts.Delimiter)
	if path == "" {
		path = "(none)"
	}
	lines := []string{
		titleStyle.Render(opts.Title),
		labelStyle.Render("Duration:       ") + valueStyle.Render(FormatDuration(summary.ProjectDuration)+" "+opts.TimeUnit),
		labelStyle.Render("Critical path:  ") + valueStyle.Render(path),
		labelStyle.Render("Tasks:          ") + valueStyle.Render(fmt.Sprintf("%d (%d critical)", summary.TaskCount, summary.CriticalTaskCount)),
	}
	return strings.Join(lines, "\n")
}

// Terminal renders the summary block and a bordered task table, with
// critical rows highlighted.
func Terminal(rows []cpm.Row, summary cpm.Summary, opts Options) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(Headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && rows[row].Critical:
				return criticalStyle
			default:
				return cellStyle
			}
		})
	for _, r := range rows {
		t.Row(Cells(r)...)
	}
	return SummaryBlock(summary, opts) + "\n\n" + t.Render() + "\n"
}
