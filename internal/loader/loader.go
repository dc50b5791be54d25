// Package loader keeps a registry in step with a catalog. Each Sync compares
// the freshly resolved descriptors with the ones applied last time and
// registers, re-registers or deregisters the difference.
package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/config"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/eid"
	"github.com/specialistvlad/suitegraph/internal/registry"
)

// Diff summarizes one Sync. Ids are in canonical order.
type Diff struct {
	Added   []eid.EID
	Changed []eid.EID
	Removed []eid.EID
}

// Empty reports whether the sync changed nothing.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// Syncer applies catalogs to a registry.
type Syncer struct {
	reg *registry.Registry

	mu      sync.Mutex
	current map[eid.EID]*artifact.Descriptor
}

// NewSyncer creates a Syncer for reg. It assumes it is the only writer of
// the descriptors it applies.
func NewSyncer(reg *registry.Registry) *Syncer {
	return &Syncer{reg: reg, current: make(map[eid.EID]*artifact.Descriptor)}
}

// Sync makes the registry hold exactly ds among the descriptors this Syncer
// manages. Descriptors equal to the applied ones are left alone, so watchers
// only hear about real changes.
func (s *Syncer) Sync(ctx context.Context, ds []*artifact.Descriptor) Diff {
	logger := ctxlog.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[eid.EID]*artifact.Descriptor, len(ds))
	var added, changed []artifact.Artifact
	for _, d := range ds {
		next[d.EID] = d
		prev, ok := s.current[d.EID]
		switch {
		case !ok:
			added = append(added, d)
		case !prev.Equal(d):
			changed = append(changed, d)
		}
	}

	var removed []eid.EID
	for id := range s.current {
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}
	eid.Sort(removed)

	s.reg.Deregister(removed...)
	s.reg.Register(added...)
	s.reg.Register(changed...)
	s.current = next

	diff := Diff{Added: sortedIDs(added), Changed: sortedIDs(changed), Removed: removed}
	logger.Info("Catalog synchronized.", "added", len(diff.Added), "changed", len(diff.Changed), "removed", len(diff.Removed))
	return diff
}

// Reload loads the catalog at paths, resolves it and syncs the result.
func (s *Syncer) Reload(ctx context.Context, l config.Loader, paths ...string) (Diff, error) {
	cat, err := l.Load(ctx, paths...)
	if err != nil {
		return Diff{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	ds, err := config.Resolve(ctx, cat)
	if err != nil {
		return Diff{}, err
	}
	return s.Sync(ctx, ds), nil
}

// Current returns the applied descriptors in canonical id order.
func (s *Syncer) Current() []*artifact.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*artifact.Descriptor, 0, len(s.current))
	for _, id := range eid.Sorted(s.current) {
		out = append(out, s.current[id])
	}
	return out
}

func sortedIDs(as []artifact.Artifact) []eid.EID {
	ids := artifact.IDs(as)
	eid.Sort(ids)
	return ids
}
