// Package storage defines the contract of the collaborator that fetches
// artifacts by id when they are not available in memory, together with the
// errors such collaborators report. Errors are propagated unchanged and never
// retried by the core.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/suitegraph/internal/artifact"
	"github.com/specialistvlad/suitegraph/internal/eid"
)

// Resolver fetches artifacts by id.
type Resolver interface {
	// Fetch returns the artifacts for ids. Missing ids are reported with a
	// *NotFoundError returned alongside the artifacts that were found;
	// backend failures are reported with a *StorageError.
	Fetch(ctx context.Context, ids []eid.EID) ([]artifact.Artifact, error)
}

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrStorage is matched by every *StorageError.
	ErrStorage = errors.New("storage failure")
)

// NotFoundError reports ids that do not exist.
type NotFoundError struct {
	IDs []eid.EID
}

func (e *NotFoundError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = id.String()
	}
	return fmt.Sprintf("object(s) with id %s not found", strings.Join(parts, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StorageError wraps a backend failure during Op.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }
