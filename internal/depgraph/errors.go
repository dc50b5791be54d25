package depgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/suitegraph/internal/eid"
)

// ErrCyclicDependency is matched by every *CyclicDependencyError.
var ErrCyclicDependency = errors.New("cyclic dependency")

// CyclicDependencyError is returned by Sort when the graph contains a cycle.
type CyclicDependencyError struct {
	// Cycle is a closed walk of ids on the cycle; the first and last entries
	// are the same node.
	Cycle []eid.EID
	// Unresolved lists every node that could not be ordered, in insertion
	// order. It includes nodes that merely depend on the cycle.
	Unresolved []eid.EID

	labels []string
}

func (g *Graph) newCycleError(cycle, unresolved []eid.EID) *CyclicDependencyError {
	labels := make([]string, len(cycle))
	for i, id := range cycle {
		labels[i] = g.labelOf(id)
	}
	return &CyclicDependencyError{Cycle: cycle, Unresolved: unresolved, labels: labels}
}

// ID returns one id known to participate in the cycle.
func (e *CyclicDependencyError) ID() eid.EID {
	return e.Cycle[0]
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency detected: %s (%d unresolved)", strings.Join(e.labels, " -> "), len(e.Unresolved))
}

func (e *CyclicDependencyError) Unwrap() error {
	return ErrCyclicDependency
}
