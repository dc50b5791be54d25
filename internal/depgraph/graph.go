package depgraph

import (
	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/eid"
)

// node wraps one artifact identity and its distinct dependencies in the order
// they were first added.
type node struct {
	id    eid.EID
	label string
	deps  []eid.EID
	seen  map[eid.EID]struct{}
}

// Graph is a mapping from identity to node with directed edges from each node
// to its dependencies.
type Graph struct {
	nodes map[eid.EID]*node
	order []*node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[eid.EID]*node),
	}
}

// Build creates a graph holding all of the given artifacts.
func Build[A artifact.Artifact](as []A) *Graph {
	g := New()
	for _, a := range as {
		g.Add(a)
	}
	return g
}

func (g *Graph) ensure(id eid.EID) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{id: id, seen: make(map[eid.EID]struct{})}
	g.nodes[id] = n
	g.order = append(g.order, n)
	return n
}

// AddDependency records that `from` depends on `to`. `from` becomes a node if
// it is not one yet; `to` may reference an id that is never added, in which
// case it is treated as a leaf when sorting. Duplicate edges are ignored.
func (g *Graph) AddDependency(from, to eid.EID) {
	n := g.ensure(from)
	if _, dup := n.seen[to]; dup {
		return
	}
	n.seen[to] = struct{}{}
	n.deps = append(n.deps, to)
}

// Add adds a as a node along with one edge per declared dependency, in the
// order the artifact lists them.
func (g *Graph) Add(a artifact.Artifact) {
	n := g.ensure(a.ID())
	if n.label == "" {
		n.label = artifact.LabelOf(a)
	}
	for _, dep := range a.Dependencies() {
		g.AddDependency(a.ID(), dep)
	}
}

// AddAll adds every artifact in order.
func (g *Graph) AddAll(as ...artifact.Artifact) {
	for _, a := range as {
		g.Add(a)
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// DependenciesOf returns the recorded dependencies of id, including dangling
// ones. The second result is false if id is not a node.
func (g *Graph) DependenciesOf(id eid.EID) ([]eid.EID, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	deps := make([]eid.EID, len(n.deps))
	copy(deps, n.deps)
	return deps, true
}

func (g *Graph) labelOf(id eid.EID) string {
	if n, ok := g.nodes[id]; ok && n.label != "" {
		return n.label
	}
	return id.String()
}
