package config

import (
	"fmt"
	"slices"
)

// Catalog is the format-agnostic content of one or more catalog files.
type Catalog struct {
	Suites []*Suite
}

// Suite is a single suite definition.
type Suite struct {
	Kind string
	Name string
	// ID is the declared identity. When empty the identity is derived from Ref.
	ID         string
	DependsOn  []string
	Parameters map[string]string
	// Source is the file the suite was read from.
	Source string
}

// Ref is the `<kind>.<name>` name other suites may use to depend on s.
func (s *Suite) Ref() string {
	return s.Kind + "." + s.Name
}

func (s *Suite) String() string {
	if s.Source == "" {
		return fmt.Sprintf("suite %q", s.Ref())
	}
	return fmt.Sprintf("suite %q (%s)", s.Ref(), s.Source)
}

// Merge appends the suites of others to c and returns c.
func (c *Catalog) Merge(others ...*Catalog) *Catalog {
	for _, o := range others {
		if o == nil {
			continue
		}
		c.Suites = append(c.Suites, o.Suites...)
	}
	return c
}

// Sources returns the distinct source files of c in first-seen order.
func (c *Catalog) Sources() []string {
	var out []string
	for _, s := range c.Suites {
		if s.Source != "" && !slices.Contains(out, s.Source) {
			out = append(out, s.Source)
		}
	}
	return out
}
