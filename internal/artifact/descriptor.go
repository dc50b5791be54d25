package artifact

import (
	"maps"
	"slices"

	"github.com/specialistvlad/suitegraph/internal/eid"
)

// Descriptor is the concrete artifact produced by catalog loaders. It carries
// only what the core needs plus a few diagnostic fields.
type Descriptor struct {
	EID        eid.EID
	TypeName   string
	Name       string
	DependsOn  []eid.EID
	Parameters map[string]string
	// Source is the file the descriptor was loaded from, if any.
	Source string
}

// ID implements Artifact.
func (d *Descriptor) ID() eid.EID { return d.EID }

// Dependencies implements Artifact.
func (d *Descriptor) Dependencies() []eid.EID { return d.DependsOn }

// Label implements Labeled.
func (d *Descriptor) Label() string { return d.Name }

// Kind implements Kinded.
func (d *Descriptor) Kind() string { return d.TypeName }

// Equal reports whether two descriptors carry the same content. Source is
// ignored so that moving a definition between files is not a change.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.EID == other.EID &&
		d.TypeName == other.TypeName &&
		d.Name == other.Name &&
		slices.Equal(d.DependsOn, other.DependsOn) &&
		maps.Equal(d.Parameters, other.Parameters)
}

func (d *Descriptor) String() string {
	if d.Name != "" {
		return d.Name
	}
	return d.EID.String()
}
