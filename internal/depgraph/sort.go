package depgraph

import (
	"slices"

	"github.com/specialistvlad/suitegraph/internal/eid"
)

// Sort returns all nodes ordered so that every node precedes its
// dependencies. It fails with a *CyclicDependencyError if the graph contains
// a cycle.
func (g *Graph) Sort() ([]eid.EID, error) {
	order, _, err := g.resolve(false)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// SortIgnoreCycle behaves like Sort but never fails. Whenever a cycle blocks
// progress, the earliest-added remaining node is settled anyway. The nodes
// settled this way are returned as forced, in the order they were forced.
func (g *Graph) SortIgnoreCycle() (order []eid.EID, forced []eid.EID) {
	order, forced, _ = g.resolve(true)
	return order, forced
}

// resolve computes the leaves-first resolution order and returns it reversed.
func (g *Graph) resolve(ignoreCycles bool) ([]eid.EID, []eid.EID, error) {
	// pending holds the number of unsettled dependencies per node.
	pending := make(map[eid.EID]int, len(g.order))
	dependents := make(map[eid.EID][]eid.EID, len(g.order))
	for _, n := range g.order {
		for _, dep := range n.deps {
			if _, isNode := g.nodes[dep]; !isNode {
				continue
			}
			pending[n.id]++
			dependents[dep] = append(dependents[dep], n.id)
		}
	}

	settled := make(map[eid.EID]bool, len(g.order))
	resolution := make([]eid.EID, 0, len(g.order))
	var forced []eid.EID

	settle := func(id eid.EID) {
		settled[id] = true
		resolution = append(resolution, id)
		for _, d := range dependents[id] {
			if !settled[d] {
				pending[d]--
			}
		}
	}

	for len(resolution) < len(g.order) {
		var ready []eid.EID
		for _, n := range g.order {
			if !settled[n.id] && pending[n.id] == 0 {
				ready = append(ready, n.id)
			}
		}

		if len(ready) == 0 {
			if !ignoreCycles {
				return nil, nil, g.cycleError(settled)
			}
			for _, n := range g.order {
				if !settled[n.id] {
					ready = append(ready, n.id)
					forced = append(forced, n.id)
					break
				}
			}
		}

		for _, id := range ready {
			settle(id)
		}
	}

	slices.Reverse(resolution)
	return resolution, forced, nil
}

// cycleError walks from the earliest unsettled node along unsettled edges.
// Every unsettled node still has at least one unsettled dependency, so the
// walk must revisit a node; the revisited suffix is a cycle.
func (g *Graph) cycleError(settled map[eid.EID]bool) *CyclicDependencyError {
	var unresolved []eid.EID
	for _, n := range g.order {
		if !settled[n.id] {
			unresolved = append(unresolved, n.id)
		}
	}

	pos := make(map[eid.EID]int)
	var path []eid.EID
	cur := unresolved[0]
	for {
		if i, visited := pos[cur]; visited {
			cycle := append(slices.Clone(path[i:]), cur)
			return g.newCycleError(cycle, unresolved)
		}
		pos[cur] = len(path)
		path = append(path, cur)

		next, ok := g.firstUnsettledDep(cur, settled)
		if !ok {
			// Unreachable while pending counts are consistent.
			return g.newCycleError([]eid.EID{cur}, unresolved)
		}
		cur = next
	}
}

func (g *Graph) firstUnsettledDep(id eid.EID, settled map[eid.EID]bool) (eid.EID, bool) {
	for _, dep := range g.nodes[id].deps {
		if _, isNode := g.nodes[dep]; isNode && !settled[dep] {
			return dep, true
		}
	}
	return eid.Nil, false
}
