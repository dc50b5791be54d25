package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/planner"
	"github.com/specialistvlad/suitegraph/internal/registry"
	"github.com/specialistvlad/suitegraph/internal/watcher"
)

// Run executes the main application logic: load, plan, print and, when
// configured, keep re-planning on catalog changes until ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer()
		defer a.closeHealthcheckServer()
	}

	if err := a.LoadLibrary(ctx); err != nil {
		return err
	}
	if _, err := a.LoadCatalog(ctx); err != nil {
		return err
	}

	plan, err := a.Plan(ctx)
	if err != nil {
		return err
	}
	a.printPlan(plan)

	if !a.config.Watch {
		a.logger.Debug("App.Run method finished.")
		return nil
	}
	return a.watch(ctx)
}

// Plan orders the configured roots and their dependencies.
func (a *App) Plan(ctx context.Context) ([]artifact.Artifact, error) {
	if a.config.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.WaitTimeout)
		defer cancel()
	}

	roots := a.roots()
	a.logger.Debug("Planning...", "roots", len(roots), "order", a.config.Order.String())
	plan, err := a.planner.Plan(ctx, roots, planner.Options{
		IgnoreCycles: a.config.IgnoreCycles,
		Order:        a.config.Order,
		NoWait:       a.config.WaitTimeout == 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to plan: %w", err)
	}
	a.logger.Info("Plan ready.", "suites", len(plan))
	return plan, nil
}

func (a *App) printPlan(plan []artifact.Artifact) {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tKIND\tNAME")
	for i, s := range plan {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, s.ID(), artifact.KindOf(s), artifact.LabelOf(s))
	}
	_ = tw.Flush()
}

// watch reloads the catalog whenever it changes and prints the new plan.
func (a *App) watch(ctx context.Context) error {
	cfg := watcher.DefaultConfig(catalogExtensions(), a.config.CatalogPaths...)
	cfg.Logger = a.logger
	w, err := watcher.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return fmt.Errorf("failed to watch catalog: %w", err)
	}

	events := registry.NewChannelListener(64)
	defer events.Close()
	defer a.registry.DeregisterCallback(events)
	a.subscribe(events)
	go a.logEvents(ctx, events)

	a.logger.Info("Watching catalog for changes.", "paths", a.config.CatalogPaths)
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped.")
			return nil
		case <-onChange:
			diff, err := a.LoadCatalog(ctx)
			if err != nil {
				a.logger.Error("Catalog reload failed, keeping previous state.", "error", err)
				continue
			}
			if diff.Empty() {
				continue
			}
			a.subscribe(events)

			plan, err := a.Plan(ctx)
			if err != nil {
				a.logger.Error("Re-planning failed.", "error", err)
				continue
			}
			a.printPlan(plan)
		}
	}
}

// subscribe resets the watch set of events to the suites registered now, so
// suites removed from the catalog do not stay behind as unresolved.
func (a *App) subscribe(events *registry.ChannelListener) {
	a.registry.DeregisterCallback(events)
	a.registry.LookupDependency(a.registry.IDs(), events)
	a.logger.Debug("Watching registered suites.", "count", len(a.registry.Watching(events)))
}

func (a *App) logEvents(ctx context.Context, events *registry.ChannelListener) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events.Events():
			a.logger.Debug("Suite changed.", "event", ev.Kind.String(), "id", ev.ID.String(), "kind", ev.ArtifactKind)
		}
	}
}
