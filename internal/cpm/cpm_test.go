package cpm

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type taskSpec struct {
	id   string
	dur  float64
	deps []string
}

func buildProject(t *testing.T, specs []taskSpec, opts ...Option) *Project {
	t.Helper()
	p := NewProject(opts...)
	for _, s := range specs {
		p.AddTask(s.id, s.dur, s.deps)
	}
	return p
}

func mustAnalyze(t *testing.T, p *Project) {
	t.Helper()
	if err := p.Analyze(); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
}

func assertSchedule(t *testing.T, p *Project, id string, es, ef, ls, lf, slack float64) {
	t.Helper()
	task, ok := p.Task(id)
	if !ok {
		t.Fatalf("task %s not found", id)
	}
	if task.EarliestStart != es {
		t.Errorf("task %s: expected ES=%v, got %v", id, es, task.EarliestStart)
	}
	if task.EarliestFinish != ef {
		t.Errorf("task %s: expected EF=%v, got %v", id, ef, task.EarliestFinish)
	}
	if task.LatestStart != ls {
		t.Errorf("task %s: expected LS=%v, got %v", id, ls, task.LatestStart)
	}
	if task.LatestFinish != lf {
		t.Errorf("task %s: expected LF=%v, got %v", id, lf, task.LatestFinish)
	}
	if task.Slack != slack {
		t.Errorf("task %s: expected slack=%v, got %v", id, slack, task.Slack)
	}
}

func assertPath(t *testing.T, p *Project, want []string) {
	t.Helper()
	if diff := cmp.Diff(want, p.CriticalPath()); diff != "" {
		t.Errorf("critical path mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_LinearChain(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{
		{"A", 3, nil},
		{"B", 4, []string{"A"}},
	})
	mustAnalyze(t, p)

	if p.Duration() != 7 {
		t.Errorf("expected project duration 7, got %v", p.Duration())
	}
	assertSchedule(t, p, "A", 0, 3, 0, 3, 0)
	assertSchedule(t, p, "B", 3, 7, 3, 7, 0)
	assertPath(t, p, []string{"A", "B"})
}

func TestAnalyze_DiamondUpperBranchLonger(t *testing.T) {
	t.Parallel()
	// A→B→D→F = 16 beats A→C→E→F = 15.
	p := buildProject(t, []taskSpec{
		{"A", 3, nil},
		{"B", 4, []string{"A"}},
		{"C", 2, []string{"A"}},
		{"D", 5, []string{"B"}},
		{"E", 6, []string{"C"}},
		{"F", 4, []string{"D", "E"}},
	})
	mustAnalyze(t, p)

	if p.Duration() != 16 {
		t.Errorf("expected project duration 16, got %v", p.Duration())
	}
	assertSchedule(t, p, "A", 0, 3, 0, 3, 0)
	assertSchedule(t, p, "B", 3, 7, 3, 7, 0)
	assertSchedule(t, p, "C", 3, 5, 4, 6, 1)
	assertSchedule(t, p, "D", 7, 12, 7, 12, 0)
	assertSchedule(t, p, "E", 5, 11, 6, 12, 1)
	assertSchedule(t, p, "F", 12, 16, 12, 16, 0)
	assertPath(t, p, []string{"A", "B", "D", "F"})
}

func TestAnalyze_DiamondLowerBranchLonger(t *testing.T) {
	t.Parallel()
	// A→C→E→F = 17 beats A→B→D→F = 16.
	p := buildProject(t, []taskSpec{
		{"A", 3, nil},
		{"B", 4, []string{"A"}},
		{"C", 2, []string{"A"}},
		{"D", 5, []string{"B"}},
		{"E", 8, []string{"C"}},
		{"F", 4, []string{"D", "E"}},
	})
	mustAnalyze(t, p)

	if p.Duration() != 17 {
		t.Errorf("expected project duration 17, got %v", p.Duration())
	}
	assertSchedule(t, p, "B", 3, 7, 4, 8, 1)
	assertSchedule(t, p, "D", 7, 12, 8, 13, 1)
	assertSchedule(t, p, "F", 13, 17, 13, 17, 0)
	assertPath(t, p, []string{"A", "C", "E", "F"})
}

func TestAnalyze_SampleProject(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{
		{"A", 3, nil},
		{"B", 4, []string{"A"}},
		{"C", 2, []string{"A"}},
		{"D", 5, []string{"B"}},
		{"E", 6, []string{"C"}},
		{"F", 4, []string{"D", "E"}},
		{"G", 3, []string{"F"}},
	})
	mustAnalyze(t, p)

	if p.Duration() != 19 {
		t.Errorf("expected project duration 19, got %v", p.Duration())
	}
	assertPath(t, p, []string{"A", "B", "D", "F", "G"})
}

func TestAnalyze_EmptyProject(t *testing.T) {
	t.Parallel()
	p := NewProject()
	mustAnalyze(t, p)

	if p.Duration() != 0 {
		t.Errorf("expected project duration 0, got %v", p.Duration())
	}
	if len(p.CriticalPath()) != 0 {
		t.Errorf("expected empty critical path, got %v", p.CriticalPath())
	}
	if !p.Analyzed() {
		t.Error("expected Analyzed() after successful analysis")
	}
}

func TestAnalyze_SingleTask(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{{"solo", 2.5, nil}})
	mustAnalyze(t, p)

	assertSchedule(t, p, "solo", 0, 2.5, 0, 2.5, 0)
	assertPath(t, p, []string{"solo"})
}

func TestAnalyze_ParallelCriticalChains(t *testing.T) {
	t.Parallel()
	// Two independent chains of equal length: both are critical and the
	// path is their breadth-first concatenation.
	p := buildProject(t, []taskSpec{
		{"X", 2, nil},
		{"X2", 1, []string{"X"}},
		{"Y", 3, nil},
	})
	mustAnalyze(t, p)

	assertPath(t, p, []string{"X", "Y", "X2"})
}

func TestAnalyze_SharedCriticalJoin(t *testing.T) {
	t.Parallel()
	// Both branches are critical; the join is listed once.
	p := buildProject(t, []taskSpec{
		{"a", 1, nil},
		{"b", 1, []string{"a"}},
		{"c", 1, []string{"a"}},
		{"d", 1, []string{"b", "c"}},
	})
	mustAnalyze(t, p)

	assertPath(t, p, []string{"a", "b", "c", "d"})
}

func TestAnalyze_Cycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		specs []taskSpec
	}{
		{
			name: "two tasks",
			specs: []taskSpec{
				{"A", 1, []string{"B"}},
				{"B", 1, []string{"A"}},
			},
		},
		{
			name:  "self dependency",
			specs: []taskSpec{{"A", 1, []string{"A"}}},
		},
		{
			name: "three tasks behind a root",
			specs: []taskSpec{
				{"R", 1, nil},
				{"A", 1, []string{"R", "C"}},
				{"B", 1, []string{"A"}},
				{"C", 1, []string{"B"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := buildProject(t, tt.specs)
			err := p.Analyze()
			if !errors.Is(err, ErrCycleDetected) {
				t.Fatalf("got %v, want ErrCycleDetected", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Category != CatCycle {
				t.Fatalf("expected *ValidationError with CatCycle, got %#v", err)
			}
			if len(ve.Cycle) < 2 || ve.Cycle[0] != ve.Cycle[len(ve.Cycle)-1] {
				t.Errorf("cycle %v is not closed", ve.Cycle)
			}
			if err.Error() != ErrCycleDetected.Error() {
				t.Errorf("message = %q, want %q", err.Error(), ErrCycleDetected.Error())
			}
			if p.Analyzed() {
				t.Error("Analyzed() = true after failed analysis")
			}
		})
	}
}

func TestAnalyze_UnknownDependency(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{
		{"A", 1, nil},
		{"B", 2, []string{"A", "ghost"}},
	})

	err := p.Analyze()
	if !errors.Is(err, ErrUnknownDependency) {
		t.Fatalf("got %v, want ErrUnknownDependency", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.TaskID != "B" || ve.Dependency != "ghost" {
		t.Errorf("ValidationError = {TaskID:%q Dependency:%q}, want {B ghost}", ve.TaskID, ve.Dependency)
	}
	for _, want := range []string{`"B"`, `"ghost"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message %q does not mention %s", err.Error(), want)
		}
	}
}

func TestAnalyze_UnknownDependencyBeatsCycle(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{
		{"A", 1, []string{"B"}},
		{"B", 1, []string{"A", "missing"}},
	})
	if err := p.Analyze(); !errors.Is(err, ErrUnknownDependency) {
		t.Errorf("got %v, want ErrUnknownDependency", err)
	}
}

func TestAnalyze_FailureKeepsPreviousResults(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{
		{"A", 3, nil},
		{"B", 4, []string{"A"}},
	})
	mustAnalyze(t, p)
	before := p.Tasks()

	p.AddTask("C", 1, []string{"nope"})
	if err := p.Analyze(); err == nil {
		t.Fatal("expected analysis to fail")
	}

	if p.Duration() != 7 {
		t.Errorf("duration changed to %v after failed analysis", p.Duration())
	}
	assertPath(t, p, []string{"A", "B"})
	after := p.Tasks()[:2]
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("computed fields changed after failed analysis (-before +after):\n%s", diff)
	}
	if !p.Analyzed() {
		t.Error("Analyzed() should still report the earlier success")
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{
		{"A", 3, nil},
		{"B", 4, []string{"A"}},
		{"C", 2, []string{"A"}},
		{"D", 1, []string{"B", "C"}},
		{"E", 7, nil},
	})
	mustAnalyze(t, p)
	firstTasks, firstPath := p.Tasks(), p.CriticalPath()

	mustAnalyze(t, p)
	if diff := cmp.Diff(firstTasks, p.Tasks()); diff != "" {
		t.Errorf("tasks differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(firstPath, p.CriticalPath()); diff != "" {
		t.Errorf("critical path differs between runs (-first +second):\n%s", diff)
	}
}

func TestAnalyze_RecomputesAfterAdd(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{{"A", 3, nil}})
	mustAnalyze(t, p)

	p.AddTask("B", 10, nil)
	mustAnalyze(t, p)

	if p.Duration() != 10 {
		t.Errorf("expected project duration 10, got %v", p.Duration())
	}
	assertSchedule(t, p, "A", 0, 3, 7, 10, 7)
	assertPath(t, p, []string{"B"})
}

func TestAnalyze_SlackTolerance(t *testing.T) {
	t.Parallel()
	specs := []taskSpec{
		{"A", 0.1, nil},
		{"B", 0.2, []string{"A"}},
		{"C", 0.3, nil},
	}

	t.Run("exact equality", func(t *testing.T) {
		t.Parallel()
		p := buildProject(t, specs)
		mustAnalyze(t, p)
		for _, id := range p.CriticalPath() {
			if id == "C" {
				t.Errorf("C has float slack %v and must not be critical under exact equality", mustTask(t, p, "C").Slack)
			}
		}
	})

	t.Run("with tolerance", func(t *testing.T) {
		t.Parallel()
		p := buildProject(t, specs, WithSlackTolerance(1e-9))
		mustAnalyze(t, p)
		assertPath(t, p, []string{"A", "C", "B"})
	})
}

func mustTask(t *testing.T, p *Project, id string) Task {
	t.Helper()
	task, ok := p.Task(id)
	if !ok {
		t.Fatalf("task %s not found", id)
	}
	return task
}

func TestAnalyze_RandomDAGProperties(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 25; round++ {
		n := 1 + rng.Intn(40)
		p := NewProject()
		for i := 0; i < n; i++ {
			var deps []string
			for j := 0; j < i; j++ {
				if rng.Intn(4) == 0 {
					deps = append(deps, fmt.Sprintf("t%d", j))
				}
			}
			p.AddTask(fmt.Sprintf("t%d", i), float64(1+rng.Intn(9)), deps)
		}
		mustAnalyze(t, p)

		hasSucc := make(map[string]bool)
		maxEF := 0.0
		for _, task := range p.Tasks() {
			for _, dep := range task.Dependencies {
				hasSucc[dep] = true
			}
			if task.EarliestFinish > maxEF {
				maxEF = task.EarliestFinish
			}
		}
		if p.Duration() != maxEF {
			t.Errorf("round %d: duration %v != max EF %v", round, p.Duration(), maxEF)
		}

		for _, task := range p.Tasks() {
			if task.Slack < 0 {
				t.Errorf("round %d: task %s has negative slack %v", round, task.ID, task.Slack)
			}
			if task.EarliestFinish != task.EarliestStart+task.Duration {
				t.Errorf("round %d: task %s EF != ES + duration", round, task.ID)
			}
			if task.LatestStart != task.LatestFinish-task.Duration {
				t.Errorf("round %d: task %s LS != LF - duration", round, task.ID)
			}
			if len(task.Dependencies) == 0 && task.EarliestStart != 0 {
				t.Errorf("round %d: root task %s has ES %v", round, task.ID, task.EarliestStart)
			}
			if !hasSucc[task.ID] && task.LatestFinish != p.Duration() {
				t.Errorf("round %d: sink task %s has LF %v, want %v", round, task.ID, task.LatestFinish, p.Duration())
			}
		}
		if len(p.CriticalPath()) == 0 {
			t.Errorf("round %d: non-empty project has empty critical path", round)
		}
	}
}

func TestAddTask_OverwriteKeepsPosition(t *testing.T) {
	t.Parallel()
	p := NewProject()
	p.AddTask("A", 1, nil)
	p.AddTask("B", 2, []string{"A"})
	p.AddTask("A", 5, nil)

	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	tasks := p.Tasks()
	if tasks[0].ID != "A" || tasks[0].Duration != 5 {
		t.Errorf("first task = %+v, want A with duration 5", tasks[0])
	}
}

func TestAddTask_CopiesDependencies(t *testing.T) {
	t.Parallel()
	deps := []string{"A"}
	p := NewProject()
	p.AddTask("A", 1, nil)
	p.AddTask("B", 1, deps)
	deps[0] = "mutated"

	if got := mustTask(t, p, "B").Dependencies; got[0] != "A" {
		t.Errorf("dependencies aliased caller slice: %v", got)
	}
}

func TestInsertTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		dur     float64
		wantErr error
	}{
		{"valid", "B", 2, nil},
		{"empty id", "", 2, ErrInvalidTask},
		{"zero duration", "B", 0, ErrInvalidTask},
		{"negative duration", "B", -1, ErrInvalidTask},
		{"duplicate", "A", 2, ErrDuplicateTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProject()
			p.AddTask("A", 1, nil)
			err := p.InsertTask(tt.id, tt.dur, nil)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("InsertTask: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if p.Len() != 1 {
				t.Errorf("Len() = %d after rejected insert, want 1", p.Len())
			}
		})
	}
}

func TestReset(t *testing.T) {
	t.Parallel()
	p := buildProject(t, []taskSpec{{"A", 3, nil}})
	mustAnalyze(t, p)
	p.Reset()

	if p.Len() != 0 || p.Duration() != 0 || len(p.CriticalPath()) != 0 || p.Analyzed() {
		t.Errorf("Reset left state behind: len=%d duration=%v path=%v analyzed=%v",
			p.Len(), p.Duration(), p.CriticalPath(), p.Analyzed())
	}
}
