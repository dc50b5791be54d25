package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/eid"
)

// ErrDuplicateSuite is matched by every *DuplicateSuiteError.
var ErrDuplicateSuite = errors.New("duplicate suite")

// DuplicateSuiteError reports two suites that resolve to the same identity.
type DuplicateSuiteError struct {
	ID            eid.EID
	First, Second *Suite
}

func (e *DuplicateSuiteError) Error() string {
	return fmt.Sprintf("%s and %s share identity %s", e.First, e.Second, e.ID)
}

func (e *DuplicateSuiteError) Unwrap() error { return ErrDuplicateSuite }

// Identity returns the identity of s: its declared ID, kept as is when it is
// a UUID and hashed otherwise, or a hash of Ref when no ID is declared.
func (s *Suite) Identity() eid.EID {
	if s.ID != "" {
		return eid.FromString(s.ID)
	}
	return eid.Derive(s.Ref())
}

// Resolve converts the suites of c into descriptors, in catalog order.
//
// A dependency reference is matched against the `<kind>.<name>` names of the
// catalog first and is otherwise interpreted as an identity. References to
// suites outside the catalog are kept; the registry resolves them later.
// Every duplicate identity and every malformed suite is reported in the
// returned error.
func Resolve(ctx context.Context, c *Catalog) ([]*artifact.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	var errs []error
	byRef := make(map[string]eid.EID, len(c.Suites))
	byID := make(map[eid.EID]*Suite, len(c.Suites))
	valid := make([]*Suite, 0, len(c.Suites))

	for _, s := range c.Suites {
		if s.Kind == "" || s.Name == "" {
			errs = append(errs, fmt.Errorf("%s: kind and name must not be empty", s))
			continue
		}
		id := s.Identity()
		if first, dup := byID[id]; dup {
			logger.Warn("Duplicate suite definition found.", "id", id.String(), "first", first.String(), "second", s.String())
			errs = append(errs, &DuplicateSuiteError{ID: id, First: first, Second: s})
			continue
		}
		byID[id] = s
		byRef[s.Ref()] = id
		valid = append(valid, s)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}

	out := make([]*artifact.Descriptor, 0, len(valid))
	for _, s := range valid {
		d := &artifact.Descriptor{
			EID:        s.Identity(),
			TypeName:   s.Kind,
			Name:       s.Name,
			Parameters: s.Parameters,
			Source:     s.Source,
		}
		for _, ref := range s.DependsOn {
			dep, ok := byRef[ref]
			if !ok {
				dep = eid.FromString(ref)
				logger.Debug("Dependency reference is not a catalog name, treating it as an identity.", "suite", s.Ref(), "ref", ref, "id", dep.String())
			}
			d.DependsOn = append(d.DependsOn, dep)
		}
		out = append(out, d)
	}
	logger.Debug("Catalog resolved.", "suites", len(out))
	return out, nil
}
