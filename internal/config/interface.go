package config

import "context"

// Loader is the interface for a format-specific catalog loader.
type Loader interface {
	// Load reads every catalog file found under paths and returns their
	// combined content. Paths that do not exist are skipped.
	Load(ctx context.Context, paths ...string) (*Catalog, error)
}

// Chain returns a Loader that runs every loader over the same paths and
// merges the results in order.
func Chain(loaders ...Loader) Loader {
	return chain(loaders)
}

type chain []Loader

func (c chain) Load(ctx context.Context, paths ...string) (*Catalog, error) {
	out := &Catalog{}
	for _, l := range c {
		cat, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		out.Merge(cat)
	}
	return out, nil
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, paths ...string) (*Catalog, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, paths ...string) (*Catalog, error) {
	return f(ctx, paths...)
}
