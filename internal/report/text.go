package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/papapumpkin/critpath/internal/cpm"
)

// WriteText writes the plain-text project report: a summary block followed
// by a fixed-width task table.
func WriteText(w io.Writer, rows []cpm.Row, summary cpm.Summary, opts Options) error {
	opts = opts.withDefaults()
	bw := bufio.NewWriter(w)

	title := strings.ToUpper(opts.Title) + " REPORT"
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, strings.Repeat("=", len([]rune(title))))
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Date: %s\n\n", opts.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(bw, "PROJECT SUMMARY")
	fmt.Fprintf(bw, "Total Duration: %s %s\n", FormatDuration(summary.ProjectDuration), opts.TimeUnit)
	fmt.Fprintf(bw, "Critical Path: %s\n", summary.PathString(opts.Delimiter))
	fmt.Fprintf(bw, "Total Tasks: %d\n", summary.TaskCount)
	fmt.Fprintf(bw, "Critical Tasks: %d\n\n", summary.CriticalTaskCount)

	fmt.Fprintln(bw, "TASK DETAILS")
	fmt.Fprintln(bw, "------------")
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "%-10s %-10s %-8s %-8s %-8s %-8s %-8s %-8s %s\n",
		"Task", "Duration", "EST", "EFT", "LST", "LFT", "Float", "Critical", "Dependencies")
	fmt.Fprintf(bw, "%s %s %s %s %s %s %s %s %s\n",
		strings.Repeat("-", 10), strings.Repeat("-", 10),
		strings.Repeat("-", 8), strings.Repeat("-", 8), strings.Repeat("-", 8),
		strings.Repeat("-", 8), strings.Repeat("-", 8), strings.Repeat("-", 8),
		strings.Repeat("-", 20))

	for _, r := range rows {
		critical := "No"
		if r.Critical {
			critical = "Yes"
		}
		line := fmt.Sprintf("%-10s %-10.1f %-8.1f %-8.1f %-8.1f %-8.1f %-8.1f %-8s %s",
			r.Task, r.Duration, r.EarliestStart, r.EarliestFinish,
			r.LatestStart, r.LatestFinish, r.Slack, critical,
			strings.Join(r.Dependencies, ", "))
		fmt.Fprintln(bw, strings.TrimRight(line, " "))
	}
	return bw.Flush()
}
