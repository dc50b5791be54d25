package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/depgraph"
	"github.com/specialistvlad/suitegraph/internal/eid"
	"github.com/specialistvlad/suitegraph/internal/registry"
	"github.com/specialistvlad/suitegraph/internal/storage"
)

// Order selects the direction of a plan.
type Order int

const (
	// DependentsFirst lists every artifact before the artifacts it depends on.
	DependentsFirst Order = iota
	// DependenciesFirst lists every artifact after the artifacts it depends
	// on, which is the order an executor runs them in.
	DependenciesFirst
)

func (o Order) String() string {
	switch o {
	case DependentsFirst:
		return "dependents-first"
	case DependenciesFirst:
		return "dependencies-first"
	default:
		return "unknown"
	}
}

// ParseOrder is the inverse of Order.String.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "dependents-first", "":
		return DependentsFirst, nil
	case "dependencies-first":
		return DependenciesFirst, nil
	default:
		return 0, fmt.Errorf("unknown plan order %q", s)
	}
}

// Options tune a single Plan call.
type Options struct {
	// IgnoreCycles orders cyclic sets anyway instead of failing.
	IgnoreCycles bool
	Order        Order
	// NoWait fails with a *storage.NotFoundError instead of waiting when
	// dependencies are still missing after the resolver was asked.
	NoWait bool
}

// Planner builds ordered plans from a registry and an optional resolver.
type Planner struct {
	reg *registry.Registry
	res storage.Resolver
}

// New creates a Planner. res may be nil, in which case missing dependencies
// are only awaited.
func New(reg *registry.Registry, res storage.Resolver) *Planner {
	return &Planner{reg: reg, res: res}
}

// join is the state of one plan while its closure is assembled.
type join struct {
	reg     *registry.Registry
	in      *inbox
	roots   []eid.EID
	watched map[eid.EID]struct{}
	latest  map[eid.EID]artifact.Artifact // newest version of each watched id

	joined  map[eid.EID]artifact.Artifact
	missing map[eid.EID]struct{}
	seen    []eid.EID // closure in discovery order
}

func newJoin(reg *registry.Registry, roots []eid.EID) *join {
	return &join{
		reg:     reg,
		in:      newInbox(),
		roots:   roots,
		watched: make(map[eid.EID]struct{}),
		latest:  make(map[eid.EID]artifact.Artifact),
		joined:  make(map[eid.EID]artifact.Artifact),
		missing: make(map[eid.EID]struct{}),
	}
}

// Plan returns the closure of roots in the requested order. Errors from the
// resolver are returned unchanged. If the context ends before every
// dependency is available, the returned error wraps ctx.Err() and names the
// missing ids.
func (p *Planner) Plan(ctx context.Context, roots []eid.EID, opts Options) ([]artifact.Artifact, error) {
	logger := ctxlog.FromContext(ctx)

	j := newJoin(p.reg, roots)
	defer p.reg.DeregisterCallback(j.in)

	j.rebuild()
	logger.Debug("Initial join complete.", "joined", len(j.joined), "missing", len(j.missing))

	if err := p.fetch(ctx, j, opts.NoWait); err != nil {
		return nil, err
	}

	if opts.NoWait {
		j.apply(j.in.drain())
		if len(j.missing) > 0 {
			return nil, fmt.Errorf("unresolved dependencies: %w", &storage.NotFoundError{IDs: j.missingIDs()})
		}
	}

	if err := j.await(ctx); err != nil {
		return nil, err
	}

	as := make([]artifact.Artifact, 0, len(j.joined))
	for _, id := range j.seen {
		if a, ok := j.joined[id]; ok {
			as = append(as, a)
		}
	}
	logger.Debug("Dependency closure joined.", "count", len(as))

	ordered, err := depgraph.Resolve(ctx, as, opts.IgnoreCycles)
	if err != nil {
		return nil, err
	}
	if opts.Order == DependenciesFirst {
		slices.Reverse(ordered)
	}
	return ordered, nil
}

// fetch asks the resolver for missing ids and registers the result, until
// no id is left that has not been asked for. Each id is fetched at most once.
// Ids the resolver does not know are left to be awaited unless noWait is set,
// in which case its *storage.NotFoundError is returned unchanged.
func (p *Planner) fetch(ctx context.Context, j *join, noWait bool) error {
	if p.res == nil {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	asked := make(map[eid.EID]struct{})
	for {
		var ids []eid.EID
		for _, id := range j.missingIDs() {
			if _, ok := asked[id]; !ok {
				asked[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		logger.Info("Fetching missing dependencies.", "count", len(ids))
		fetched, err := p.res.Fetch(ctx, ids)
		if err != nil {
			var nf *storage.NotFoundError
			if noWait || !errors.As(err, &nf) {
				return err
			}
			logger.Info("Resolver lacks some dependencies, they will be awaited.", "count", len(nf.IDs))
		}
		p.reg.Register(fetched...)
		j.apply(j.in.drain())
	}
}

// PlanAll plans every artifact currently registered.
func (p *Planner) PlanAll(ctx context.Context, opts Options) ([]artifact.Artifact, error) {
	return p.Plan(ctx, p.reg.IDs(), opts)
}

// rebuild recomputes the closure of the roots from the latest version of
// every watched artifact. Ids reached for the first time are watched and the
// walk is repeated, so a dependency dropped by an update leaves the closure.
func (j *join) rebuild() {
	for {
		joined := make(map[eid.EID]artifact.Artifact)
		missing := make(map[eid.EID]struct{})
		visited := make(map[eid.EID]struct{})
		var seen, unwatched []eid.EID

		queue := slices.Clone(j.roots)
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if _, ok := visited[id]; ok {
				continue
			}
			visited[id] = struct{}{}
			seen = append(seen, id)

			if _, ok := j.watched[id]; !ok {
				unwatched = append(unwatched, id)
				continue
			}
			a, ok := j.latest[id]
			if !ok {
				missing[id] = struct{}{}
				continue
			}
			joined[id] = a
			queue = append(queue, a.Dependencies()...)
		}

		if len(unwatched) == 0 {
			j.joined, j.missing, j.seen = joined, missing, seen
			return
		}
		j.watch(unwatched)
	}
}

// watch looks up ids and subscribes the inbox to all of them.
func (j *join) watch(ids []eid.EID) {
	found := j.reg.LookupDependency(ids, j.in)
	for _, id := range ids {
		j.watched[id] = struct{}{}
		if a, ok := found[id]; ok {
			j.latest[id] = a
		}
	}
}

// await applies registry events until nothing is missing and no event is
// pending, or ctx ends.
func (j *join) await(ctx context.Context) error {
	for {
		j.apply(j.in.drain())
		if len(j.missing) == 0 {
			return nil
		}
		select {
		case <-j.in.notify:
		case <-ctx.Done():
			ids := j.missingIDs()
			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = id.String()
			}
			return fmt.Errorf("waiting for %d unresolved dependencies (%s): %w", len(ids), strings.Join(parts, ", "), ctx.Err())
		}
	}
}

// apply records registry events and rebuilds the closure if any of them
// concerns a watched id.
func (j *join) apply(evs []registry.Event) {
	changed := false
	for _, ev := range evs {
		if _, ok := j.watched[ev.ID]; !ok {
			continue
		}
		changed = true
		switch ev.Kind {
		case registry.Resolved, registry.Updated:
			j.latest[ev.ID] = ev.Artifact
		case registry.Deregistered:
			delete(j.latest, ev.ID)
		}
	}
	if changed {
		j.rebuild()
	}
}

func (j *join) missingIDs() []eid.EID {
	return eid.Sorted(j.missing)
}
