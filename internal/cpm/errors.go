package cpm

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry and analysis failures.
var (
	// ErrUnknownDependency indicates a task depends on an ID that was never added.
	ErrUnknownDependency = errors.New("unknown dependency")
	// ErrCycleDetected indicates the dependency graph contains a directed cycle.
	ErrCycleDetected = errors.New("circular dependency detected in the project")
	// ErrDuplicateTask indicates a strict insert reused an existing task ID.
	ErrDuplicateTask = errors.New("duplicate task ID")
	// ErrInvalidTask indicates a strict insert with an empty ID or non-positive duration.
	ErrInvalidTask = errors.New("invalid task")
	// ErrAnalysis wraps an unexpected failure inside one of the scheduling passes.
	ErrAnalysis = errors.New("analysis failed")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

const (
	// CatUnknownDependency indicates a dependency references a missing task.
	CatUnknownDependency ValidationCategory = "unknown_dependency"
	// CatCycle indicates a circular dependency among tasks.
	CatCycle ValidationCategory = "cycle"
)

// ValidationError records why a project failed validation.
type ValidationError struct {
	Category   ValidationCategory
	TaskID     string   // dependent task, for CatUnknownDependency
	Dependency string   // missing dependency ID, for CatUnknownDependency
	Cycle      []string // one offending cycle, for CatCycle
	Err        error
}

// Error returns the message shown verbatim to the user.
func (e *ValidationError) Error() string {
	if e.Category == CatUnknownDependency {
		return fmt.Sprintf("task %q depends on non-existent task %q", e.TaskID, e.Dependency)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying sentinel for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
