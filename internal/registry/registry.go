package registry

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/eid"
	"github.com/specialistvlad/suitegraph/internal/storage"
)

// watch is a listener's accumulated interest. ids holds every id the
// listener ever asked for, resolved or not.
type watch struct {
	listener Listener
	seq      uint64
	ids      map[eid.EID]struct{}
	// active is cleared by DeregisterCallback so that notifications already
	// snapshotted are not delivered afterwards.
	active atomic.Bool
}

// notification is an event bound to the watch it must be delivered to.
type notification struct {
	w  *watch
	ev Event
}

// Registry maps identities to the artifacts currently loaded and tracks which
// listeners watch which ids.
type Registry struct {
	mu       sync.Mutex
	logger   *slog.Logger
	entries  map[eid.EID]artifact.Artifact
	watches  map[Listener]*watch
	watchers map[eid.EID]map[*watch]struct{}
	nextSeq  uint64
}

// New creates an empty Registry. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:   logger.With("component", "registry"),
		entries:  make(map[eid.EID]artifact.Artifact),
		watches:  make(map[Listener]*watch),
		watchers: make(map[eid.EID]map[*watch]struct{}),
	}
}

// Register stores artifacts. A new id notifies its watchers with a Resolved
// event; an id that is already registered is replaced and its watchers get an
// Updated event instead. Registering the same artifact twice is therefore
// harmless: the table is unchanged and watchers see an update.
func (r *Registry) Register(as ...artifact.Artifact) {
	r.mu.Lock()
	var out []notification
	for _, a := range as {
		id := a.ID()
		_, exists := r.entries[id]
		r.entries[id] = a

		kind := Resolved
		if exists {
			kind = Updated
			r.logger.Debug("Replacing registered artifact.", "id", id.String(), "label", artifact.LabelOf(a))
		} else {
			r.logger.Debug("Registering artifact.", "id", id.String(), "label", artifact.LabelOf(a))
		}
		out = r.collect(out, id, Event{Kind: kind, ID: id, Artifact: a, ArtifactKind: artifact.KindOf(a)})
	}
	r.mu.Unlock()

	r.dispatch(out)
}

// Update replaces already registered artifacts and notifies watchers with
// Updated events. If any id is not registered, nothing is changed and an
// error matching storage.ErrNotFound is returned.
func (r *Registry) Update(as ...artifact.Artifact) error {
	r.mu.Lock()
	var missing []eid.EID
	for _, a := range as {
		if _, ok := r.entries[a.ID()]; !ok {
			missing = append(missing, a.ID())
		}
	}
	if len(missing) > 0 {
		r.mu.Unlock()
		return &storage.NotFoundError{IDs: missing}
	}

	var out []notification
	for _, a := range as {
		id := a.ID()
		r.entries[id] = a
		r.logger.Debug("Updated artifact.", "id", id.String(), "label", artifact.LabelOf(a))
		out = r.collect(out, id, Event{Kind: Updated, ID: id, Artifact: a, ArtifactKind: artifact.KindOf(a)})
	}
	r.mu.Unlock()

	r.dispatch(out)
	return nil
}

// Deregister removes ids and sends a Deregistered event, carrying the
// declared kind of the removed artifact, to each watcher. Ids that are not
// registered are ignored. Watches are kept: re-registering an id later
// notifies the same listeners with a Resolved event.
func (r *Registry) Deregister(ids ...eid.EID) {
	r.mu.Lock()
	var out []notification
	for _, id := range ids {
		a, ok := r.entries[id]
		if !ok {
			continue
		}
		delete(r.entries, id)
		r.logger.Debug("Deregistered artifact.", "id", id.String(), "label", artifact.LabelOf(a))
		out = r.collect(out, id, Event{Kind: Deregistered, ID: id, ArtifactKind: artifact.KindOf(a)})
	}
	r.mu.Unlock()

	r.dispatch(out)
}

// LookupDependency returns the subset of ids that is currently registered and
// adds all of ids to l's watch set. Watches accumulate across calls. Ids that
// are already registered are not notified retroactively: the caller has them
// in the returned map. A nil listener only performs the lookup.
func (r *Registry) LookupDependency(ids []eid.EID, l Listener) map[eid.EID]artifact.Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()

	var w *watch
	if l != nil {
		w = r.watches[l]
		if w == nil {
			r.nextSeq++
			w = &watch{listener: l, seq: r.nextSeq, ids: make(map[eid.EID]struct{})}
			w.active.Store(true)
			r.watches[l] = w
		}
	}

	result := make(map[eid.EID]artifact.Artifact, len(ids))
	for _, id := range ids {
		if a, ok := r.entries[id]; ok {
			result[id] = a
		} else {
			r.logger.Debug("Registering listener for unresolved dependency.", "id", id.String())
		}
		if w == nil {
			continue
		}
		w.ids[id] = struct{}{}
		set := r.watchers[id]
		if set == nil {
			set = make(map[*watch]struct{})
			r.watchers[id] = set
		}
		set[w] = struct{}{}
	}
	return result
}

// Lookup returns the artifacts for all ids or an error matching
// storage.ErrNotFound that lists every id that is not registered.
func (r *Registry) Lookup(ids []eid.EID) (map[eid.EID]artifact.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make(map[eid.EID]artifact.Artifact, len(ids))
	var missing []eid.EID
	for _, id := range ids {
		a, ok := r.entries[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		result[id] = a
	}
	if len(missing) > 0 {
		return nil, &storage.NotFoundError{IDs: missing}
	}
	return result, nil
}

// DeregisterCallback removes all watches of l. No further events are
// delivered to it, including events already being dispatched to other
// listeners.
func (r *Registry) DeregisterCallback(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.watches[l]
	if !ok {
		return
	}
	w.active.Store(false)
	for id := range w.ids {
		set := r.watchers[id]
		delete(set, w)
		if len(set) == 0 {
			delete(r.watchers, id)
		}
	}
	delete(r.watches, l)
}

// Len returns the number of registered artifacts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// IDs returns the registered ids in canonical order.
func (r *Registry) IDs() []eid.EID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return eid.Sorted(r.entries)
}

// UnresolvedIDs returns the ids that are watched but not registered, in
// canonical order.
func (r *Registry) UnresolvedIDs() []eid.EID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []eid.EID
	for id := range r.watchers {
		if _, ok := r.entries[id]; !ok {
			ids = append(ids, id)
		}
	}
	eid.Sort(ids)
	return ids
}

// Watching returns the ids l watches, in canonical order.
func (r *Registry) Watching(l Listener) []eid.EID {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.watches[l]
	if !ok {
		return nil
	}
	return eid.Sorted(w.ids)
}

// collect appends one notification per watcher of id, ordered by the time the
// listener first subscribed. Must be called with r.mu held.
func (r *Registry) collect(out []notification, id eid.EID, ev Event) []notification {
	set := r.watchers[id]
	if len(set) == 0 {
		return out
	}
	ws := make([]*watch, 0, len(set))
	for w := range set {
		ws = append(ws, w)
	}
	slices.SortFunc(ws, func(a, b *watch) int { return cmp.Compare(a.seq, b.seq) })
	for _, w := range ws {
		out = append(out, notification{w: w, ev: ev})
	}
	return out
}

// dispatch delivers notifications in order. Must be called without r.mu held.
func (r *Registry) dispatch(ns []notification) {
	for _, n := range ns {
		if !n.w.active.Load() {
			continue
		}
		r.deliver(n)
	}
}

func (r *Registry) deliver(n notification) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Listener panicked while handling event.", "event", n.ev.Kind.String(), "id", n.ev.ID.String(), "panic", rec)
		}
	}()

	switch n.ev.Kind {
	case Resolved:
		n.w.listener.DependencyResolved(n.ev.Artifact)
	case Updated:
		n.w.listener.DependencyUpdated(n.ev.Artifact)
	case Deregistered:
		n.w.listener.DependencyDeregistered(n.ev.ArtifactKind, n.ev.ID)
	}
}
