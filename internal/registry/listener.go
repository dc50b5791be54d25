package registry

import (
	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/eid"
)

// Listener is informed about state changes of the artifacts it watches.
//
// Listeners are used as map keys and must therefore be comparable; pointer
// receivers are the usual choice.
type Listener interface {
	// DependencyResolved is called when a watched id is registered.
	DependencyResolved(a artifact.Artifact)
	// DependencyUpdated is called when a watched, registered id is replaced.
	DependencyUpdated(a artifact.Artifact)
	// DependencyDeregistered is called when a watched id is removed. kind is
	// the declared kind of the removed artifact.
	DependencyDeregistered(kind string, id eid.EID)
}

// EventKind tags an Event.
type EventKind int

const (
	// Resolved: a watched id became available.
	Resolved EventKind = iota
	// Updated: a watched id was replaced.
	Updated
	// Deregistered: a watched id was removed.
	Deregistered
)

func (k EventKind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Updated:
		return "updated"
	case Deregistered:
		return "deregistered"
	default:
		return "unknown"
	}
}

// Event is the tagged form of a listener notification.
type Event struct {
	Kind EventKind
	ID   eid.EID
	// Artifact is nil for Deregistered events.
	Artifact artifact.Artifact
	// ArtifactKind is the declared kind of the artifact.
	ArtifactKind string
}

// ChannelListener adapts the Listener callbacks to a channel of Events.
//
// Delivery blocks while the buffer is full, until Close is called. After
// Close, events are dropped.
type ChannelListener struct {
	events chan Event
	done   chan struct{}
}

// NewChannelListener creates a listener with the given buffer size.
func NewChannelListener(buffer int) *ChannelListener {
	return &ChannelListener{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// Events returns the channel events are delivered on. It is never closed.
func (c *ChannelListener) Events() <-chan Event {
	return c.events
}

// Close stops delivery. It must be called at most once.
func (c *ChannelListener) Close() {
	close(c.done)
}

func (c *ChannelListener) send(ev Event) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// DependencyResolved implements Listener.
func (c *ChannelListener) DependencyResolved(a artifact.Artifact) {
	c.send(Event{Kind: Resolved, ID: a.ID(), Artifact: a, ArtifactKind: artifact.KindOf(a)})
}

// DependencyUpdated implements Listener.
func (c *ChannelListener) DependencyUpdated(a artifact.Artifact) {
	c.send(Event{Kind: Updated, ID: a.ID(), Artifact: a, ArtifactKind: artifact.KindOf(a)})
}

// DependencyDeregistered implements Listener.
func (c *ChannelListener) DependencyDeregistered(kind string, id eid.EID) {
	c.send(Event{Kind: Deregistered, ID: id, ArtifactKind: kind})
}
