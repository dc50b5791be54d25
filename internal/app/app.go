package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/suitegraph/internal/config"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/hcl"
	"github.com/specialistvlad/suitegraph/internal/loader"
	"github.com/specialistvlad/suitegraph/internal/planner"
	"github.com/specialistvlad/suitegraph/internal/registry"
	"github.com/specialistvlad/suitegraph/internal/storage"
	"github.com/specialistvlad/suitegraph/internal/yamlcat"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	ctx    context.Context
	config *Config

	loader   config.Loader
	registry *registry.Registry
	library  *storage.Memory
	syncer   *loader.Syncer
	planner  *planner.Planner

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Plans are written to
// outW and logs to logW. Nothing is loaded until Run.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(logger)
	library := storage.NewMemory()
	var res storage.Resolver
	if len(cfg.LibraryPaths) > 0 {
		res = library
	}

	return &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   cfg,
		loader:   config.Chain(hcl.NewLoader(hcl.WithVariables(cfg.Variables)), yamlcat.NewLoader()),
		registry: reg,
		library:  library,
		syncer:   loader.NewSyncer(reg),
		planner:  planner.New(reg, res),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// catalogExtensions lists the file extensions understood by the loaders.
func catalogExtensions() []string {
	return append([]string{hcl.Extension}, yamlcat.Extensions...)
}
