// Package ui provides stderr-based status output for critpath commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/papapumpkin/critpath/internal/ansi"
	"github.com/papapumpkin/critpath/internal/cpm"
	"github.com/papapumpkin/critpath/internal/report"
)

// Printer writes human-oriented status lines. Report payloads go to stdout;
// everything a Printer writes is commentary.
type Printer struct {
	w       io.Writer
	color   bool
	verbose bool
}

// New returns a Printer writing to stderr.
func New(verbose bool) *Printer {
	return NewWriter(os.Stderr, verbose)
}

// NewWriter returns a Printer writing to w. Color is enabled only when w is
// a terminal.
func NewWriter(w io.Writer, verbose bool) *Printer {
	return &Printer{w: w, color: ansi.Enabled(w), verbose: verbose}
}

func (p *Printer) paint(s string, codes ...string) string {
	return ansi.Paint(p.color, s, codes...)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.paint(msg, ansi.Dim))
}

// Verbosef prints only when verbose output was requested.
func (p *Printer) Verbosef(format string, args ...any) {
	if !p.verbose {
		return
	}
	fmt.Fprintln(p.w, p.paint("· "+fmt.Sprintf(format, args...), ansi.Dim))
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.w, p.paint("✓ ", ansi.Green, ansi.Bold)+msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.w, p.paint("⚠ ", ansi.Yellow, ansi.Bold)+msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.paint("error: ", ansi.Red, ansi.Bold)+msg)
}

// ValidateResult reports the outcome of a validation-only run.
func (p *Printer) ValidateResult(name string, taskCount int, err error) {
	if err == nil {
		fmt.Fprintf(p.w, "%s — %d task(s), no errors\n", p.paint(fmt.Sprintf("✓ project %q", name), ansi.Green, ansi.Bold), taskCount)
		return
	}
	fmt.Fprintf(p.w, "%s — %s\n", p.paint(fmt.Sprintf("✗ project %q", name), ansi.Red, ansi.Bold), err.Error())
}

// AnalysisDone prints a one-line schedule summary.
func (p *Printer) AnalysisDone(s cpm.Summary, unit, delim string) {
	path := s.PathString(delim)
	if path == "" {
		path = "(none)"
	}
	fmt.Fprintf(p.w, "%s %s %s, critical path %s %s\n",
		p.paint("✓ analyzed", ansi.Green, ansi.Bold),
		report.FormatDuration(s.ProjectDuration), unit,
		p.paint(path, ansi.Bold),
		p.paint(fmt.Sprintf("(%d/%d tasks critical)", s.CriticalTaskCount, s.TaskCount), ansi.Dim))
}

// AnalysisFailed prints the analysis error message verbatim.
func (p *Printer) AnalysisFailed(err error) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint("✗ analysis failed:", ansi.Red, ansi.Bold), err.Error())
}

func (p *Printer) TaskAdded(id string, duration float64, deps []string) {
	dep := "no dependencies"
	if len(deps) > 0 {
		dep = "after " + strings.Join(deps, ", ")
	}
	fmt.Fprintf(p.w, "%s %s %s\n", p.paint("+ task", ansi.Cyan), p.paint(id, ansi.Bold),
		p.paint(fmt.Sprintf("(%s, %s)", report.FormatDuration(duration), dep), ansi.Dim))
}

func (p *Printer) Wrote(path, what string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.paint("✓ wrote", ansi.Green), what, p.paint(path, ansi.Bold))
}

func (p *Printer) Watching(path string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.paint("◎ watching", ansi.Magenta, ansi.Bold), path, p.paint("(ctrl+c to stop)", ansi.Dim))
}
