package cpm

import "github.com/papapumpkin/critpath/internal/dag"

// extractCriticalPath orders the zero-slack tasks. It takes the subgraph
// induced by critical tasks, seeds a breadth-first walk with every critical
// task that has no critical predecessor, and records tasks as they are first
// visited. Independent critical chains are concatenated in discovery order.
// If no critical task qualifies as a seed, the path is empty.
func (p *Project) extractCriticalPath(g *dag.Graph, s *schedule) []string {
	var critical []string
	for _, id := range p.order {
		if p.isCritical(s.times[id].slack) {
			critical = append(critical, id)
		}
	}
	if len(critical) == 0 {
		return nil
	}

	sub := g.Subgraph(critical)
	seeds := sub.Roots()
	if len(seeds) == 0 {
		return nil
	}
	return sub.BFS(seeds)
}
