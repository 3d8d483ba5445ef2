// Package cpm computes Critical Path Method schedules. A Project holds the
// task registry; Analyze validates it and runs the forward pass, backward
// pass and critical path extraction as one sequential pipeline.
//
// A Project is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package cpm

import (
	"fmt"
	"math"
)

// Task is one registered activity together with its computed timings.
// Timing fields are zero until an analysis succeeds.
type Task struct {
	ID           string
	Duration     float64
	Dependencies []string

	EarliestStart  float64
	EarliestFinish float64
	LatestStart    float64
	LatestFinish   float64
	Slack          float64
}

// Option configures a Project.
type Option func(*Project)

// WithSlackTolerance treats any slack whose magnitude is at most eps as zero
// when deciding criticality. The default of 0 means exact equality.
func WithSlackTolerance(eps float64) Option {
	return func(p *Project) {
		p.tolerance = math.Abs(eps)
	}
}

// Project is the task registry plus the results of the last successful
// analysis.
type Project struct {
	tasks map[string]*Task
	order []string

	tolerance float64

	analyzed     bool
	duration     float64
	criticalPath []string
}

// NewProject creates an empty project.
func NewProject(opts ...Option) *Project {
	p := &Project{tasks: make(map[string]*Task)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddTask registers a task. It never fails: inputs are checked later by
// Validate, and an existing entry with the same ID is replaced in place,
// keeping its original position in the registry.
func (p *Project) AddTask(id string, duration float64, deps []string) {
	t := &Task{
		ID:           id,
		Duration:     duration,
		Dependencies: append([]string(nil), deps...),
	}
	if _, exists := p.tasks[id]; !exists {
		p.order = append(p.order, id)
	}
	p.tasks[id] = t
}

// InsertTask registers a task, rejecting an empty ID, a non-positive
// duration, or an ID that is already registered.
func (p *Project) InsertTask(id string, duration float64, deps []string) error {
	if id == "" {
		return fmt.Errorf("%w: task ID cannot be empty", ErrInvalidTask)
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return fmt.Errorf("%w: task %q: duration must be positive, got %v", ErrInvalidTask, id, duration)
	}
	if _, exists := p.tasks[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, id)
	}
	p.AddTask(id, duration, deps)
	return nil
}

// Reset clears the registry and all analysis results.
func (p *Project) Reset() {
	p.tasks = make(map[string]*Task)
	p.order = nil
	p.analyzed = false
	p.duration = 0
	p.criticalPath = nil
}

// Len returns the number of registered tasks.
func (p *Project) Len() int {
	return len(p.order)
}

// Task returns a copy of the task with the given ID.
func (p *Project) Task(id string) (Task, bool) {
	t, ok := p.tasks[id]
	if !ok {
		return Task{}, false
	}
	return t.clone(), true
}

// Tasks returns copies of all tasks in registration order.
func (p *Project) Tasks() []Task {
	out := make([]Task, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.tasks[id].clone())
	}
	return out
}

// Analyzed reports whether an analysis has succeeded since the project was
// created or last reset.
func (p *Project) Analyzed() bool {
	return p.analyzed
}

// Duration returns the project duration from the last successful analysis.
func (p *Project) Duration() float64 {
	return p.duration
}

// CriticalPath returns the ordered critical path from the last successful
// analysis.
func (p *Project) CriticalPath() []string {
	return append([]string(nil), p.criticalPath...)
}

func (t *Task) clone() Task {
	c := *t
	c.Dependencies = append([]string(nil), t.Dependencies...)
	return c
}
