package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/papapumpkin/critpath/internal/cpm"
)

// WriteDOT writes the dependency network as a Graphviz digraph. Critical
// tasks are filled red and edges between two critical tasks are drawn bold.
func WriteDOT(w io.Writer, rows []cpm.Row, summary cpm.Summary, opts Options) error {
	opts = opts.withDefaults()
	bw := bufio.NewWriter(w)

	critical := make(map[string]bool, len(rows))
	for _, r := range rows {
		critical[r.Task] = r.Critical
	}

	label := fmt.Sprintf("%s (Project Duration: %s %s)", opts.Title, FormatDuration(summary.ProjectDuration), opts.TimeUnit)
	fmt.Fprintln(bw, "digraph critpath {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintf(bw, "  label=%s;\n", strconv.Quote(label))
	fmt.Fprintln(bw, "  node [shape=box, style=\"rounded,filled\"];")

	for _, r := range rows {
		fill := "skyblue"
		if r.Critical {
			fill = "red"
		}
		nodeLabel := fmt.Sprintf("%s\nDur: %s\nEST: %s\nLST: %s",
			r.Task, FormatDuration(r.Duration), FormatDuration(r.EarliestStart), FormatDuration(r.LatestStart))
		fmt.Fprintf(bw, "  %s [label=%s, fillcolor=%s];\n", strconv.Quote(r.Task), strconv.Quote(nodeLabel), fill)
	}
	for _, r := range rows {
		for _, dep := range r.Dependencies {
			attrs := ""
			if critical[dep] && r.Critical {
				attrs = " [penwidth=2]"
			}
			fmt.Fprintf(bw, "  %s -> %s%s;\n", strconv.Quote(dep), strconv.Quote(r.Task), attrs)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
