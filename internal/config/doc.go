// Package config defines the format-agnostic catalog model, the Loader
// interface implemented by the concrete catalog formats, and Resolve, which
// turns a catalog into the artifact descriptors handled by the registry.
//
// Concrete loaders live in separate packages (hcl, yamlcat).
package config
