package graph

import "sync"

// Edge points from a node to one of its dependencies. Deferred edges are
// resolved on demand and do not take part in cycle detection or ordering.
type Edge[K comparable] struct {
	To       K
	Deferred bool
}

type Node[K comparable] struct {
	ID    K
	Edges []Edge[K]
}

// Graph is a dependency graph that remembers insertion order so that walks
// and error reports are deterministic.
type Graph[K comparable] struct {
	mu    sync.RWMutex
	order []K
	nodes map[K]*Node[K]
}

func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		nodes: make(map[K]*Node[K]),
	}
}

func (g *Graph[K]) AddNode(id K, edges []Edge[K]) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[id]; !exists {
		g.order = append(g.order, id)
	}
	g.nodes[id] = &Node[K]{
		ID:    id,
		Edges: edges,
	}
}

func (g *Graph[K]) GetDependents(id K) []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []K
	for _, nodeID := range g.order {
		for _, e := range g.nodes[nodeID].Edges {
			if e.To == id {
				dependents = append(dependents, nodeID)
				break
			}
		}
	}
	return dependents
}
