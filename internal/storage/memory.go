package storage

import (
	"context"
	"sync"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/eid"
)

// Memory is a goroutine-safe, in-memory Resolver.
type Memory struct {
	mu    sync.RWMutex
	items map[eid.EID]artifact.Artifact
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[eid.EID]artifact.Artifact)}
}

// Put stores or replaces artifacts.
func (m *Memory) Put(as ...artifact.Artifact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range as {
		m.items[a.ID()] = a
	}
}

// Delete removes ids; unknown ids are ignored.
func (m *Memory) Delete(ids ...eid.EID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.items, id)
	}
}

// Len returns the number of stored artifacts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Fetch implements Resolver. If some ids are not stored, the ones that are
// come back together with a *NotFoundError listing the rest.
func (m *Memory) Fetch(ctx context.Context, ids []eid.EID) ([]artifact.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "fetch", Err: err}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]artifact.Artifact, 0, len(ids))
	var missing []eid.EID
	for _, id := range ids {
		a, ok := m.items[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, a)
	}
	if len(missing) > 0 {
		return out, &NotFoundError{IDs: missing}
	}
	return out, nil
}
