package cpm

import "github.com/papapumpkin/critpath/internal/dag"

// buildGraph converts the registry into a dependency graph with one node per
// task and one edge per declared dependency (dependency → dependent).
// Dependencies on unregistered IDs are skipped; Validate reports them.
func (p *Project) buildGraph() *dag.Graph {
	g := dag.New()
	for _, id := range p.order {
		_ = g.AddNode(id)
	}
	for _, id := range p.order {
		for _, dep := range p.tasks[id].Dependencies {
			if _, ok := p.tasks[dep]; ok {
				_ = g.AddEdge(dep, id)
			}
		}
	}
	return g
}

// Validate checks that every dependency names a registered task and that the
// dependency graph is acyclic. It returns a *ValidationError on failure and
// never modifies the project.
func (p *Project) Validate() error {
	for _, id := range p.order {
		for _, dep := range p.tasks[id].Dependencies {
			if _, ok := p.tasks[dep]; !ok {
				return &ValidationError{
					Category:   CatUnknownDependency,
					TaskID:     id,
					Dependency: dep,
					Err:        ErrUnknownDependency,
				}
			}
		}
	}

	if cycle := p.buildGraph().FindCycle(); cycle != nil {
		return &ValidationError{
			Category: CatCycle,
			Cycle:    cycle,
			Err:      ErrCycleDetected,
		}
	}
	return nil
}
