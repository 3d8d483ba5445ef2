package projectfile

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput is the sentinel wrapped by every InputError.
var ErrInvalidInput = errors.New("invalid task input")

// InputError describes a rejected add-task request. Msg is shown to the
// user as-is.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string { return e.Msg }

// Unwrap returns ErrInvalidInput.
func (e *InputError) Unwrap() error { return ErrInvalidInput }

// ParseTaskInput validates raw add-task fields before they reach the
// registry. exists reports whether an ID is already declared. depsStr is a
// comma-separated list; blank entries are dropped.
func ParseTaskInput(id, durationStr, depsStr string, exists func(string) bool) (TaskEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return TaskEntry{}, &InputError{Field: "id", Msg: "Task ID cannot be empty"}
	}
	if exists(id) {
		return TaskEntry{}, &InputError{Field: "id", Msg: fmt.Sprintf("Task ID '%s' already exists", id)}
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return TaskEntry{}, &InputError{Field: "duration", Msg: "Duration must be a number"}
	}
	if duration <= 0 {
		return TaskEntry{}, &InputError{Field: "duration", Msg: "Duration must be positive"}
	}

	var deps []string
	for _, dep := range strings.Split(depsStr, ",") {
		dep = strings.TrimSpace(dep)
		if dep == "" {
			continue
		}
		if !exists(dep) {
			return TaskEntry{}, &InputError{Field: "depends_on", Msg: fmt.Sprintf("Dependency '%s' does not exist", dep)}
		}
		deps = append(deps, dep)
	}

	return TaskEntry{ID: id, Duration: duration, DependsOn: deps}, nil
}
