// Package artifact defines the capability interface shared by everything the
// graph and registry handle: an identity plus an ordered list of dependencies.
package artifact

import (
	"fmt"

	"github.com/specialistvlad/suitegraph/internal/eid"
)

// Artifact is any unit identified by an EID that may depend on other artifacts.
type Artifact interface {
	ID() eid.EID
	// Dependencies returns the ids this artifact depends on, in declaration order.
	Dependencies() []eid.EID
}

// Labeled is implemented by artifacts that carry a human readable label.
type Labeled interface {
	Label() string
}

// Kinded is implemented by artifacts that declare their own type name.
type Kinded interface {
	Kind() string
}

// KindOf returns the declared kind of a, or its Go type name when a does not
// declare one.
func KindOf(a Artifact) string {
	if k, ok := a.(Kinded); ok && k.Kind() != "" {
		return k.Kind()
	}
	return fmt.Sprintf("%T", a)
}

// LabelOf returns the label of a, or its id when it has none.
func LabelOf(a Artifact) string {
	if l, ok := a.(Labeled); ok && l.Label() != "" {
		return l.Label()
	}
	return a.ID().String()
}

// IDs collects the identities of as, preserving order.
func IDs[A Artifact](as []A) []eid.EID {
	ids := make([]eid.EID, len(as))
	for i, a := range as {
		ids[i] = a.ID()
	}
	return ids
}
