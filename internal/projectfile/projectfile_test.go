package projectfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/critpath/internal/cpm"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `
name = "Launch"
time_unit = "weeks"

[[task]]
id = "A"
duration = 3

[[task]]
id = "B"
duration = 4.5
depends_on = ["A"]
description = "build"
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &File{
		Name:     "Launch",
		TimeUnit: "weeks",
		Tasks: []TaskEntry{
			{ID: "A", Duration: 3},
			{ID: "B", Duration: 4.5, DependsOn: []string{"A"}, Description: "build"},
		},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, ErrNoProjectFile) {
		t.Errorf("got %v, want ErrNoProjectFile", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "[[task]\nid = ")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "project.toml")
	if err := Save(path, Sample()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Sample(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFile_Project(t *testing.T) {
	t.Parallel()

	t.Run("sample analyzes", func(t *testing.T) {
		t.Parallel()
		p, err := Sample().Project()
		if err != nil {
			t.Fatalf("Project: %v", err)
		}
		if err := p.Analyze(); err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if p.Duration() != 19 {
			t.Errorf("duration = %v, want 19", p.Duration())
		}
		if diff := cmp.Diff([]string{"A", "B", "D", "F", "G"}, p.CriticalPath()); diff != "" {
			t.Errorf("critical path mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		t.Parallel()
		f := &File{Tasks: []TaskEntry{{ID: "A", Duration: 1}, {ID: "A", Duration: 2}}}
		_, err := f.Project()
		if !errors.Is(err, cpm.ErrDuplicateTask) {
			t.Errorf("got %v, want cpm.ErrDuplicateTask", err)
		}
	})

	t.Run("non-positive duration rejected", func(t *testing.T) {
		t.Parallel()
		f := &File{Tasks: []TaskEntry{{ID: "A"}}}
		_, err := f.Project()
		if !errors.Is(err, cpm.ErrInvalidTask) {
			t.Errorf("got %v, want cpm.ErrInvalidTask", err)
		}
	})

	t.Run("unknown dependency left to analysis", func(t *testing.T) {
		t.Parallel()
		f := &File{Tasks: []TaskEntry{{ID: "A", Duration: 1, DependsOn: []string{"Z"}}}}
		p, err := f.Project()
		if err != nil {
			t.Fatalf("Project: %v", err)
		}
		if err := p.Analyze(); !errors.Is(err, cpm.ErrUnknownDependency) {
			t.Errorf("Analyze = %v, want cpm.ErrUnknownDependency", err)
		}
	})
}

func TestHas(t *testing.T) {
	t.Parallel()
	f := Sample()
	if !f.Has("C") {
		t.Error("Has(C) = false, want true")
	}
	if f.Has("Z") {
		t.Error("Has(Z) = true, want false")
	}
}
