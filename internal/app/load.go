package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/suitegraph/internal/config"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/eid"
	"github.com/specialistvlad/suitegraph/internal/loader"
)

// LoadLibrary loads the library catalog into the on-demand store. Library
// suites are only registered when a plan needs them.
func (a *App) LoadLibrary(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if len(a.config.LibraryPaths) == 0 {
		logger.Debug("No library paths configured.")
		return nil
	}
	logger.Debug("Loading library...", "paths", a.config.LibraryPaths)

	cat, err := a.loader.Load(ctx, a.config.LibraryPaths...)
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}
	ds, err := config.Resolve(ctx, cat)
	if err != nil {
		return fmt.Errorf("failed to resolve library: %w", err)
	}
	for _, d := range ds {
		a.library.Put(d)
	}
	logger.Info("Library loaded.", "suites", len(ds), "files", len(cat.Sources()))
	return nil
}

// LoadCatalog loads the catalog and syncs it into the registry.
func (a *App) LoadCatalog(ctx context.Context) (loader.Diff, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading catalog...", "paths", a.config.CatalogPaths)
	return a.syncer.Reload(ctx, a.loader, a.config.CatalogPaths...)
}

// roots maps the configured root references to identities. A reference is
// matched against the `<kind>.<name>` names of the loaded catalog first and
// is otherwise read as an identity. No roots means every registered suite.
func (a *App) roots() []eid.EID {
	if len(a.config.Roots) == 0 {
		return a.registry.IDs()
	}

	byRef := make(map[string]eid.EID)
	for _, d := range a.syncer.Current() {
		byRef[d.TypeName+"."+d.Name] = d.EID
	}

	ids := make([]eid.EID, 0, len(a.config.Roots))
	for _, r := range a.config.Roots {
		if id, ok := byRef[r]; ok {
			ids = append(ids, id)
			continue
		}
		ids = append(ids, eid.FromString(r))
	}
	return ids
}
