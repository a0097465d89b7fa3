package graph

import (
	"fmt"
	"strings"
)

// MissingError reports an edge whose target has no node.
type MissingError[K comparable] struct {
	From K
	To   K
}

func (e *MissingError[K]) Error() string {
	return fmt.Sprintf("%v depends on missing %v", e.From, e.To)
}

// CycleError lists the nodes of a cycle in the order the walk met them.
type CycleError[K comparable] struct {
	Cycle []K
}

func (e *CycleError[K]) Error() string {
	parts := make([]string, 0, len(e.Cycle)+1)
	for _, id := range e.Cycle {
		parts = append(parts, fmt.Sprint(id))
	}
	if len(e.Cycle) > 0 {
		parts = append(parts, fmt.Sprint(e.Cycle[0]))
	}
	return "cycle: " + strings.Join(parts, " -> ")
}

// path is the ordered set of nodes on the current walk.
type path[K comparable] struct {
	items []K
	index map[K]int
}

func newPath[K comparable](start K) *path[K] {
	return &path[K]{
		items: []K{start},
		index: map[K]int{start: 0},
	}
}

func (p *path[K]) contains(id K) bool {
	_, ok := p.index[id]
	return ok
}

func (p *path[K]) push(id K) {
	p.index[id] = len(p.items)
	p.items = append(p.items, id)
}

func (p *path[K]) pop() {
	last := p.items[len(p.items)-1]
	delete(p.index, last)
	p.items = p.items[:len(p.items)-1]
}

// from returns the tail of the path starting at id.
func (p *path[K]) from(id K) []K {
	tail := p.items[p.index[id]:]
	cycle := make([]K, len(tail))
	copy(cycle, tail)
	return cycle
}

// Check walks every node in insertion order. It returns a *MissingError for
// the first edge without a target and a *CycleError for the first cycle of
// non-deferred edges. Deferred edges only have their target checked.
func (g *Graph[K]) Check() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	done := make(map[K]bool, len(g.nodes))
	for _, id := range g.order {
		if err := g.check(id, newPath(id), done); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph[K]) check(id K, p *path[K], done map[K]bool) error {
	if done[id] {
		return nil
	}

	for _, e := range g.nodes[id].Edges {
		if _, exists := g.nodes[e.To]; !exists {
			return &MissingError[K]{From: id, To: e.To}
		}
		if e.Deferred {
			continue
		}
		if p.contains(e.To) {
			return &CycleError[K]{Cycle: p.from(e.To)}
		}

		p.push(e.To)
		err := g.check(e.To, p, done)
		p.pop()
		if err != nil {
			return err
		}
	}

	done[id] = true
	return nil
}
