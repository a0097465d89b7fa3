package graph

import "errors"

var ErrCycleDetected = errors.New("cycle detected in graph")

type Group[K comparable] struct {
	Level int
	Nodes []K
}

// Groups buckets ids by dependency depth over non-deferred edges: a node's
// level is one more than the deepest dependency it has. Members of a group do
// not depend on each other. Groups are ordered by level; nodes keep the order
// of ids.
func (g *Graph[K]) Groups(ids []K) ([]Group[K], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	levels := make(map[K]int, len(g.nodes))
	visiting := make(map[K]bool)

	var level func(id K) (int, error)
	level = func(id K) (int, error) {
		if l, ok := levels[id]; ok {
			return l, nil
		}
		if visiting[id] {
			return 0, ErrCycleDetected
		}
		visiting[id] = true
		defer delete(visiting, id)

		deepest := -1
		if node, exists := g.nodes[id]; exists {
			for _, e := range node.Edges {
				if e.Deferred {
					continue
				}
				if _, exists := g.nodes[e.To]; !exists {
					continue
				}
				l, err := level(e.To)
				if err != nil {
					return 0, err
				}
				deepest = max(deepest, l)
			}
		}

		levels[id] = deepest + 1
		return deepest + 1, nil
	}

	byLevel := make(map[int][]K)
	maxLevel := -1
	for _, id := range ids {
		l, err := level(id)
		if err != nil {
			return nil, err
		}
		byLevel[l] = append(byLevel[l], id)
		maxLevel = max(maxLevel, l)
	}

	groups := make([]Group[K], 0, len(byLevel))
	for l := 0; l <= maxLevel; l++ {
		if nodes, ok := byLevel[l]; ok {
			groups = append(groups, Group[K]{Level: l, Nodes: nodes})
		}
	}
	return groups, nil
}
