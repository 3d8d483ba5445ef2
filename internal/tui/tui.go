// Package tui is the interactive terminal view of a project's schedule.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/critpath/internal/watch"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a program on the alternate screen.
func NewProgram(load LoadFunc, changes <-chan watch.Change, unit, delim string, opts ...tea.ProgramOption) *Program {
	model := NewModel(load, changes, unit, delim)
	allOpts := append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return tea.NewProgram(model, allOpts...)
}

// Run creates and runs a program, blocking until the user quits.
func Run(load LoadFunc, changes <-chan watch.Change, unit, delim string) error {
	if _, err := NewProgram(load, changes, unit, delim).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
