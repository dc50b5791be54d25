package depgraph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/eid"
)

// Resolve builds a fresh graph from as and returns the artifacts in Sort
// order. With ignoreCycles set, cycles are broken as in SortIgnoreCycle and
// logged instead of failing.
func Resolve[A artifact.Artifact](ctx context.Context, as []A, ignoreCycles bool) ([]A, error) {
	logger := ctxlog.FromContext(ctx)

	byID := make(map[eid.EID]A, len(as))
	unique := make([]A, 0, len(as))
	for _, a := range as {
		if _, dup := byID[a.ID()]; dup {
			logger.Warn("Duplicate artifact in resolution set, later definition ignored.", "id", a.ID().String(), "label", artifact.LabelOf(a))
			continue
		}
		byID[a.ID()] = a
		unique = append(unique, a)
	}
	g := Build(unique)
	logger.Debug("Dependency graph built.", "node_count", g.Len())

	var order []eid.EID
	if ignoreCycles {
		var forced []eid.EID
		order, forced = g.SortIgnoreCycle()
		for _, id := range forced {
			deps, _ := g.DependenciesOf(id)
			logger.Warn("Dependency cycle ignored, node ordered anyway.", "id", id.String(), "label", g.labelOf(id), "depends_on", len(deps))
		}
	} else {
		var err error
		order, err = g.Sort()
		if err != nil {
			logger.Error("Dependency graph contains a cycle.", "error", err)
			return nil, fmt.Errorf("error ordering %d artifacts: %w", len(byID), err)
		}
	}

	result := make([]A, len(order))
	for i, id := range order {
		result[i] = byID[id]
	}
	return result, nil
}
