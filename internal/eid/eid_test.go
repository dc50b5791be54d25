// internal/eid/eid_test.go
package eid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDerive_KnownValue(t *testing.T) {
	// Value produced by the identifier scheme already present in stored data.
	id := Derive("No UUID")
	assert.Equal(t, "a402ff87-805b-3875-bf17-eddd0bba21d9", id.String())
	assert.Equal(t, uuid.Version(3), id.u.Version())
	assert.Equal(t, uuid.RFC4122, id.u.Variant())
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  string
	}{
		{name: "canonical", raw: "99b01a1a-5423-49a9-8c22-27519a95d9bd", expected: "99b01a1a-5423-49a9-8c22-27519a95d9bd"},
		{name: "upper case", raw: "99B01A1A-5423-49A9-8C22-27519A95D9BD", expected: "99b01a1a-5423-49a9-8c22-27519a95d9bd"},
		{name: "nil uuid", raw: "00000000-0000-0000-0000-000000000000", expected: "00000000-0000-0000-0000-000000000000"},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - plain text", raw: "No UUID", expectErr: true},
		{name: "error - missing dashes", raw: "99b01a1a542349a98c2227519a95d9bd", expectErr: true},
		{name: "error - urn form", raw: "urn:uuid:99b01a1a-5423-49a9-8c22-27519a95d9bd", expectErr: true},
		{name: "error - braces", raw: "{99b01a1a-5423-49a9-8c22-27519a95d9bd}", expectErr: true},
		{name: "error - bad hex", raw: "99b01a1a-5423-49a9-8c22-27519a95d9bz", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, id.String())
		})
	}
}

func TestParse_CaseInsensitiveEquality(t *testing.T) {
	lower := MustParse("99b01a1a-5423-49a9-8c22-27519a95d9bd")
	upper := MustParse("99B01A1A-5423-49A9-8C22-27519A95D9BD")
	assert.Equal(t, lower, upper)

	m := map[EID]int{lower: 1}
	assert.Equal(t, 1, m[upper])
}

func TestFromString(t *testing.T) {
	preserved := FromString("99b01a1a-5423-49a9-8c22-27519a95d9bd")
	assert.Equal(t, "99b01a1a-5423-49a9-8c22-27519a95d9bd", preserved.String())

	derived := FromString("No UUID")
	assert.Equal(t, Derive("No UUID"), derived)
}

func TestDerive_HashInputIsCaseSensitive(t *testing.T) {
	assert.NotEqual(t, Derive("ets.a"), Derive("ETS.A"))
}

func TestMarshalText_RoundTrip(t *testing.T) {
	id := Derive("ETS.1")
	text, err := id.MarshalText()
	require.NoError(t, err)

	var back EID
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)

	assert.ErrorIs(t, back.UnmarshalText([]byte("garbage")), ErrInvalidIdentity)
}

func TestCompare_MatchesCanonicalStringOrder(t *testing.T) {
	ids := []EID{Derive("c"), Derive("a"), Derive("b"), New(), New(), Nil}
	Sort(ids)
	for i := 1; i < len(ids); i++ {
		assert.True(t, ids[i-1].String() <= ids[i].String(), "%s should sort before %s", ids[i-1], ids[i])
		assert.LessOrEqual(t, Compare(ids[i-1], ids[i]), 0)
	}
}

func TestSorted(t *testing.T) {
	m := map[EID]string{Derive("x"): "x", Derive("y"): "y", Derive("z"): "z"}
	keys := Sorted(m)
	require.Len(t, keys, 3)
	for i := 1; i < len(keys); i++ {
		assert.Negative(t, Compare(keys[i-1], keys[i]))
	}
}

func TestDerive_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.String().Draw(t, "a")
		b := rapid.String().Draw(t, "b")

		// Deterministic.
		if Derive(a) != Derive(a) {
			t.Fatalf("derive of %q is not stable", a)
		}
		// Different inputs give different identities.
		if a != b && Derive(a) == Derive(b) {
			t.Fatalf("collision between %q and %q", a, b)
		}
		// The canonical form parses back to the same identity.
		canonical := Derive(a).String()
		parsed, err := Parse(canonical)
		if err != nil {
			t.Fatalf("canonical form %q does not parse: %v", canonical, err)
		}
		if parsed != Derive(a) {
			t.Fatalf("parsed %s != derived %s", parsed, Derive(a))
		}
		if strings.ToLower(canonical) != canonical {
			t.Fatalf("canonical form %q is not lowercase", canonical)
		}
	})
}
