package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/eid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Fetch(t *testing.T) {
	ctx := context.Background()
	a := &artifact.Descriptor{EID: eid.Derive("a"), Name: "a"}
	b := &artifact.Descriptor{EID: eid.Derive("b"), Name: "b"}

	m := NewMemory()
	m.Put(a, b)
	require.Equal(t, 2, m.Len())

	t.Run("all present", func(t *testing.T) {
		got, err := m.Fetch(ctx, []eid.EID{b.EID, a.EID})
		require.NoError(t, err)
		assert.Equal(t, []artifact.Artifact{b, a}, got)
	})

	t.Run("missing ids", func(t *testing.T) {
		missing := eid.Derive("missing")
		got, err := m.Fetch(ctx, []eid.EID{a.EID, missing})
		assert.Equal(t, []artifact.Artifact{a}, got, "found artifacts come back with the error")
		require.ErrorIs(t, err, ErrNotFound)

		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, []eid.EID{missing}, nf.IDs)
		assert.Contains(t, err.Error(), missing.String())
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.Fetch(cctx, []eid.EID{a.EID})
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("delete", func(t *testing.T) {
		m.Delete(a.EID, eid.Derive("unknown"))
		assert.Equal(t, 1, m.Len())
		_, err := m.Fetch(ctx, []eid.EID{a.EID})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk on fire")
	err := &StorageError{Op: "read", Err: cause}
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage read failed: disk on fire", err.Error())
}
