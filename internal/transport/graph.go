package transport

import "sort"

// Edge is a weighted directed connection to Target.
type Edge struct {
	Target int
	Weight float64
}

// Graph is a directed weighted adjacency list keyed by stop ID.
type Graph struct {
	adj map[int][]Edge
}

func NewGraph() *Graph {
	return &Graph{adj: make(map[int][]Edge)}
}

func (g *Graph) AddNode(id int) {
	if g.adj == nil {
		g.adj = make(map[int][]Edge)
	}
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = nil
	}
}

// AddEdge adds both endpoints if needed and appends from->to.
func (g *Graph) AddEdge(from, to int, weight float64) {
	g.AddNode(from)
	g.AddNode(to)
	g.adj[from] = append(g.adj[from], Edge{Target: to, Weight: weight})
}

// RemoveEdge drops every from->to edge.
func (g *Graph) RemoveEdge(from, to int) {
	edges, ok := g.adj[from]
	if !ok {
		return
	}
	kept := edges[:0]
	for _, e := range edges {
		if e.Target != to {
			kept = append(kept, e)
		}
	}
	g.adj[from] = kept
}

func (g *Graph) Edges(id int) []Edge {
	return g.adj[id]
}

func (g *Graph) HasNode(id int) bool {
	_, ok := g.adj[id]
	return ok
}

func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// Nodes returns every node ID in ascending order.
func (g *Graph) Nodes() []int {
	out := make([]int, 0, len(g.adj))
	for id := range g.adj {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
