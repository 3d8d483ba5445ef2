// Package dag provides the directed dependency graph used by the scheduler.
// Edges point from a dependency to its dependent: if B depends on A, there
// is an edge A → B. Node and edge order follow insertion order so that every
// traversal is deterministic for a given input.
package dag

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when the graph contains a dependency cycle.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// Graph is an adjacency-list digraph keyed by task ID.
type Graph struct {
	order []string
	nodes map[string]bool
	// succ maps nodeID → dependents, in edge insertion order.
	succ map[string][]string
	// pred maps nodeID → dependencies, in edge insertion order.
	pred  map[string][]string
	edges map[[2]string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
		edges: make(map[[2]string]bool),
	}
}

// AddNode adds a node with the given ID. Returns ErrDuplicateNode if a node
// with that ID already exists.
func (g *Graph) AddNode(id string) error {
	if g.nodes[id] {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	g.nodes[id] = true
	g.order = append(g.order, id)
	return nil
}

// AddEdge adds an edge from → to, meaning to cannot start before from
// finishes. Both nodes must already exist. Repeated edges are ignored.
// Self-loops and cycles are accepted here and reported by FindCycle and
// TopologicalSort.
func (g *Graph) AddEdge(from, to string) error {
	if !g.nodes[from] {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	if !g.nodes[to] {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	key := [2]string{from, to}
	if g.edges[key] {
		return nil
	}
	g.edges[key] = true
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
	return nil
}

// Has reports whether the graph contains a node with the given ID.
func (g *Graph) Has(id string) bool {
	return g.nodes[id]
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Successors returns the dependents of id. The returned slice must not be
// modified.
func (g *Graph) Successors(id string) []string {
	return g.succ[id]
}

// Predecessors returns the dependencies of id. The returned slice must not
// be modified.
func (g *Graph) Predecessors(id string) []string {
	return g.pred[id]
}

// InDegree returns the number of incoming edges of id.
func (g *Graph) InDegree(id string) int {
	return len(g.pred[id])
}

// TopologicalSort returns node IDs in an order where every edge points
// forward (Kahn's algorithm). Zero in-degree nodes are seeded in insertion
// order and freed nodes are appended in successor order. Returns ErrCycle if
// the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.order))
	queue := make([]string, 0, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.pred[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		for _, next := range g.succ[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(g.order) {
		return nil, fmt.Errorf("%w: not all nodes could be ordered (%d of %d)",
			ErrCycle, len(sorted), len(g.order))
	}
	return sorted, nil
}

// FindCycle returns the node IDs of one directed cycle, first node repeated
// at the end, or nil if the graph is acyclic.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (g *Graph) FindCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.order))
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.succ[node] {
			switch color[next] {
			case gray:
				cycle := []string{next}
				for cur := node; cur != next; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, next)
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			case white:
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, id := range g.order {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Subgraph returns the subgraph induced by ids: the given nodes plus every
// edge of g whose endpoints are both included. Node and edge order follow g.
// IDs not present in g are ignored.
func (g *Graph) Subgraph(ids []string) *Graph {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if g.nodes[id] {
			keep[id] = true
		}
	}

	sub := New()
	for _, id := range g.order {
		if keep[id] {
			_ = sub.AddNode(id)
		}
	}
	for _, from := range sub.order {
		for _, to := range g.succ[from] {
			if keep[to] {
				_ = sub.AddEdge(from, to)
			}
		}
	}
	return sub
}

// Roots returns the nodes with no incoming edge, in insertion order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.pred[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// BFS walks the graph breadth-first from seeds and returns every reachable
// node once, in the order it is first dequeued. Seeds are visited in the
// given order; successors are enqueued in edge order.
func (g *Graph) BFS(seeds []string) []string {
	visited := make(map[string]bool, len(g.order))
	queue := make([]string, 0, len(seeds))
	queue = append(queue, seeds...)

	var out []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] || !g.nodes[id] {
			continue
		}
		visited[id] = true
		out = append(out, id)

		for _, next := range g.succ[id] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}
	return out
}
