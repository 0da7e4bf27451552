package reconcile

import (
	"context"
	"time"

	"watchstate/core/state"
)

// Store is the persistence port the mapper reads and writes records through.
type Store interface {
	// Get finds the stored record matching e: by primary key when e.ID is set, otherwise by
	// any shared identity pointer. It returns nil, nil when nothing matches. Returned
	// records carry a snapshot of their persisted values.
	Get(ctx context.Context, e *state.Entity) (*state.Entity, error)

	// GetAll returns every record updated after since. A zero since returns everything.
	GetAll(ctx context.Context, since time.Time) ([]*state.Entity, error)

	// Insert persists a new record, assigns its ID and snapshots it.
	// It fails with state.ErrHasPrimaryID when e already has an ID.
	Insert(ctx context.Context, e *state.Entity) error

	// Update persists changes to an existing record and snapshots it.
	// It fails with state.ErrNoPrimaryID when e has no ID.
	Update(ctx context.Context, e *state.Entity) error

	// Remove deletes the record and reports whether a row was removed.
	Remove(ctx context.Context, e *state.Entity) (bool, error)
}

// Committer is implemented by stores that can write a whole batch at once. Records with
// an ID are updated, the rest inserted. A failing record must not abort the batch: it is
// counted as failed and the remaining records are still written.
type Committer interface {
	Commit(ctx context.Context, entities []*state.Entity) (CommitResult, error)
}
