package tui

import (
	"time"

	"github.com/papapumpkin/critpath/internal/cpm"
	"github.com/papapumpkin/critpath/internal/watch"
)

// Snapshot is one analyzed state of the project.
type Snapshot struct {
	Name    string
	Summary cpm.Summary
	Rows    []cpm.Row
}

// LoadFunc reads and analyzes the project.
type LoadFunc func() (Snapshot, error)

// MsgLoaded carries the outcome of a load. Seq orders loads so a slow,
// older result never replaces a newer one.
type MsgLoaded struct {
	Seq      uint64
	Snapshot Snapshot
	Err      error
	At       time.Time
}

// MsgFileChanged is sent when the watched project file changes.
type MsgFileChanged struct {
	Change watch.Change
}
