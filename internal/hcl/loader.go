package hcl

import (
	"context"
	"fmt"
	"maps"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/suitegraph/internal/config"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/fsutil"
)

// Extension is the file extension of HCL catalog files.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	vars map[string]string
}

// Option configures a Loader.
type Option func(*Loader)

// WithVariables makes vars available to expressions as `var.<name>`.
func WithVariables(vars map[string]string) Option {
	return func(l *Loader) {
		maps.Copy(l.vars, vars)
	}
}

// NewLoader creates a new HCL catalog loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{vars: make(map[string]string)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every .hcl file under paths and returns the suites they define,
// in file order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext(l.vars)
	catalog := &config.Catalog{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Suites {
			suite, err := l.translateSuite(ctx, block, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			suite.Source = file
			catalog.Suites = append(catalog.Suites, suite)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(files), "suites", len(catalog.Suites))
	return catalog, nil
}
