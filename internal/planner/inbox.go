package planner

import (
	"sync"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/eid"
	"github.com/specialistvlad/suitegraph/internal/registry"
)

// inbox is a registry listener with an unbounded queue. Delivery never
// blocks, so the planner may register artifacts it is itself watching.
type inbox struct {
	mu     sync.Mutex
	queue  []registry.Event
	notify chan struct{}
}

func newInbox() *inbox {
	return &inbox{notify: make(chan struct{}, 1)}
}

func (in *inbox) push(ev registry.Event) {
	in.mu.Lock()
	in.queue = append(in.queue, ev)
	in.mu.Unlock()

	select {
	case in.notify <- struct{}{}:
	default:
	}
}

// drain returns and clears the queued events.
func (in *inbox) drain() []registry.Event {
	in.mu.Lock()
	defer in.mu.Unlock()
	evs := in.queue
	in.queue = nil
	return evs
}

func (in *inbox) DependencyResolved(a artifact.Artifact) {
	in.push(registry.Event{Kind: registry.Resolved, ID: a.ID(), Artifact: a})
}

func (in *inbox) DependencyUpdated(a artifact.Artifact) {
	in.push(registry.Event{Kind: registry.Updated, ID: a.ID(), Artifact: a})
}

func (in *inbox) DependencyDeregistered(kind string, id eid.EID) {
	in.push(registry.Event{Kind: registry.Deregistered, ID: id, ArtifactKind: kind})
}
