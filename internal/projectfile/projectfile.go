// Package projectfile reads and writes critpath project files. A project
// file is TOML with one [[task]] table per task:
//
//	name = "Website launch"
//	time_unit = "days"
//
//	[[task]]
//	id = "A"
//	duration = 3
//
//	[[task]]
//	id = "B"
//	duration = 4
//	depends_on = ["A"]
package projectfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/critpath/internal/cpm"
)

// ErrNoProjectFile indicates the project file does not exist.
var ErrNoProjectFile = errors.New("project file not found")

// TaskEntry is one [[task]] table.
type TaskEntry struct {
	ID          string   `toml:"id"`
	Duration    float64  `toml:"duration"`
	DependsOn   []string `toml:"depends_on,omitempty"`
	Description string   `toml:"description,omitempty"`
}

// File is the decoded project file.
type File struct {
	Name     string      `toml:"name"`
	TimeUnit string      `toml:"time_unit,omitempty"`
	Tasks    []TaskEntry `toml:"task"`
}

// Load reads and parses the project file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoProjectFile, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes project file content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Save writes f to path, creating parent directories as needed.
func Save(path string, f *File) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding project file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Has reports whether a task with the given ID is declared.
func (f *File) Has(id string) bool {
	for _, t := range f.Tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Project registers every declared task in a new cpm.Project, in file order.
// Empty IDs, non-positive durations and duplicate IDs are rejected here;
// dependency problems are left to analysis.
func (f *File) Project(opts ...cpm.Option) (*cpm.Project, error) {
	p := cpm.NewProject(opts...)
	for i, t := range f.Tasks {
		if err := p.InsertTask(t.ID, t.Duration, t.DependsOn); err != nil {
			return nil, fmt.Errorf("task #%d: %w", i+1, err)
		}
	}
	return p, nil
}

// Sample returns the built-in demonstration project.
func Sample() *File {
	return &File{
		Name:     "Sample project",
		TimeUnit: "days",
		Tasks: []TaskEntry{
			{ID: "A", Duration: 3},
			{ID: "B", Duration: 4, DependsOn: []string{"A"}},
			{ID: "C", Duration: 2, DependsOn: []string{"A"}},
			{ID: "D", Duration: 5, DependsOn: []string{"B"}},
			{ID: "E", Duration: 6, DependsOn: []string{"C"}},
			{ID: "F", Duration: 4, DependsOn: []string{"D", "E"}},
			{ID: "G", Duration: 3, DependsOn: []string{"F"}},
		},
	}
}
