package cpm

import (
	"fmt"
	"math"

	"github.com/papapumpkin/critpath/internal/dag"
)

// timing is the scratch record filled by the passes before commit.
type timing struct {
	es, ef, ls, lf, slack float64
}

// schedule is the complete output of one analysis. It is only copied into
// the project once every pass has finished.
type schedule struct {
	times        map[string]*timing
	duration     float64
	criticalPath []string
}

// Analyze runs validation, the forward pass, the backward pass and critical
// path extraction. On failure the project's computed state is left exactly
// as it was, and the returned error's message is suitable for display.
func (p *Project) Analyze() error {
	if err := p.Validate(); err != nil {
		return err
	}

	s, err := p.compute()
	if err != nil {
		return err
	}
	p.commit(s)
	return nil
}

// compute runs the passes over a freshly built graph. A panic inside any
// pass is converted into an ErrAnalysis error.
func (p *Project) compute() (s *schedule, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: %v", ErrAnalysis, r)
		}
	}()

	g := p.buildGraph()
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	s = &schedule{times: make(map[string]*timing, len(order))}
	for _, id := range order {
		s.times[id] = &timing{}
	}

	p.forwardPass(order, s)
	p.backwardPass(g, order, s)
	s.criticalPath = p.extractCriticalPath(g, s)
	return s, nil
}

// forwardPass computes earliest start and finish in topological order and
// sets the project duration to the largest earliest finish.
func (p *Project) forwardPass(order []string, s *schedule) {
	for _, id := range order {
		t := p.tasks[id]
		tm := s.times[id]

		tm.es = 0
		for i, dep := range t.Dependencies {
			ef := s.times[dep].ef
			if i == 0 || ef > tm.es {
				tm.es = ef
			}
		}
		tm.ef = tm.es + t.Duration
	}

	s.duration = 0
	for i, id := range order {
		if ef := s.times[id].ef; i == 0 || ef > s.duration {
			s.duration = ef
		}
	}
}

// backwardPass computes latest start and finish plus slack in reverse
// topological order. Tasks without successors finish at the project
// duration; every other task finishes by its earliest-starting successor.
func (p *Project) backwardPass(g *dag.Graph, order []string, s *schedule) {
	for _, id := range order {
		s.times[id].lf = s.duration
	}

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		tm := s.times[id]

		for j, succ := range g.Successors(id) {
			ls := s.times[succ].ls
			if j == 0 || ls < tm.lf {
				tm.lf = ls
			}
		}
		tm.ls = tm.lf - p.tasks[id].Duration
		tm.slack = tm.ls - tm.es
	}
}

// isCritical reports whether slack counts as zero under the project's
// tolerance.
func (p *Project) isCritical(slack float64) bool {
	if p.tolerance == 0 {
		return slack == 0
	}
	return math.Abs(slack) <= p.tolerance
}

// commit copies a finished schedule into the registry.
func (p *Project) commit(s *schedule) {
	for id, tm := range s.times {
		t := p.tasks[id]
		t.EarliestStart = tm.es
		t.EarliestFinish = tm.ef
		t.LatestStart = tm.ls
		t.LatestFinish = tm.lf
		t.Slack = tm.slack
	}
	p.duration = s.duration
	p.criticalPath = s.criticalPath
	p.analyzed = true
}
