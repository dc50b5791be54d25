// internal/eid/eid.go
package eid

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ErrInvalidIdentity is returned when a string is not a syntactically valid UUID.
var ErrInvalidIdentity = errors.New("invalid identity")

// canonicalLen is the length of the `8-4-4-4-12` hex form.
const canonicalLen = 36

// EID is an immutable artifact identifier.
type EID struct {
	u uuid.UUID
}

// Nil is the zero identity.
var Nil = EID{}

// Parse creates an EID from a UUID-shaped string, preserving its value.
// Only the dashed 36 character form is accepted; hex digits may be in any case.
func Parse(s string) (EID, error) {
	if len(s) != canonicalLen {
		return Nil, fmt.Errorf("%w: %q is not a %d character UUID", ErrInvalidIdentity, s, canonicalLen)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("%w: %q: %v", ErrInvalidIdentity, s, err)
	}
	return EID{u: u}, nil
}

// MustParse is like Parse but panics on invalid input. Intended for tests and
// package-level fixtures.
func MustParse(s string) EID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Derive deterministically hashes s into a version 3 UUID. It never fails.
func Derive(s string) EID {
	sum := md5.Sum([]byte(s))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC 4122 variant
	return EID{u: uuid.UUID(sum)}
}

// FromString preserves s if it is a valid UUID and derives an identity from
// it otherwise.
func FromString(s string) EID {
	if id, err := Parse(s); err == nil {
		return id
	}
	return Derive(s)
}

// New returns a random (version 4) identity.
func New() EID {
	return EID{u: uuid.New()}
}

// String returns the canonical lowercase form.
func (id EID) String() string {
	return id.u.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id EID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using strict parsing.
func (id *EID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Compare orders identities by their canonical string form. Since the
// canonical form is fixed-width lowercase hex, byte order is equivalent.
func Compare(a, b EID) int {
	return bytes.Compare(a.u[:], b.u[:])
}

// Sort sorts ids in place in canonical order.
func Sort(ids []EID) {
	slices.SortFunc(ids, Compare)
}

// Sorted returns the keys of m in canonical order.
func Sorted[V any](m map[EID]V) []EID {
	ids := make([]EID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	Sort(ids)
	return ids
}
