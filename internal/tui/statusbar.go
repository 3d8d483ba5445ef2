package tui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/critpath/internal/cpm"
	"github.com/papapumpkin/critpath/internal/report"
)

// StatusBar shows the project name and headline figures.
type StatusBar struct {
	Name     string
	Unit     string
	Summary  cpm.Summary
	Filtered bool
	Width    int
}

// View renders the status bar.
func (s StatusBar) View() string {
	name := s.Name
	if name == "" {
		name = "Project"
	}
	parts := []string{
		styleStatusLabel.Render(name),
		styleStatusValue.Render(fmt.Sprintf("%s %s", report.FormatDuration(s.Summary.ProjectDuration), s.Unit)),
		styleStatusValue.Render(fmt.Sprintf("%d tasks, %d critical", s.Summary.TaskCount, s.Summary.CriticalTaskCount)),
	}
	if s.Filtered {
		parts = append(parts, styleCriticalMark.Render("critical only"))
	}
	bar := styleStatusBar
	if s.Width > 0 {
		bar = bar.Width(s.Width)
	}
	return bar.Render(strings.Join(parts, "  "))
}
