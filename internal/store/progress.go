package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/google/uuid"
)

// ProgressMutation is the partial field set applied by an update. Every
// rating overwrites the mastery level and refreshes the practice
// timestamps; TimesPracticed carries the already-incremented counter.
type ProgressMutation struct {
	MasteryLevel   int
	TimesPracticed int
	LastPracticed  time.Time
	UpdatedAt      time.Time
}

// ProgressStore defines the interface for progress record persistence.
//
// The insert/update split deliberately mirrors the upsert protocol of the
// mastery tracker: Insert must report a uniqueness violation on the
// six-field identity key as ErrDuplicate (distinguishable via
// IsDuplicateError) so the tracker can fall back to UpdateByKey.
type ProgressStore interface {
	// FindByScope retrieves all progress records for the given user,
	// direction and level, ordered by last_practiced descending (most
	// recently reviewed first). Returns an empty slice when the user has
	// no records in the scope.
	FindByScope(ctx context.Context, userID uuid.UUID, direction, level string) ([]*domain.ProgressRecord, error)

	// Insert saves a new progress record with its generated ID.
	// Returns ErrDuplicate if a record with the same six-field identity
	// key already exists. Handles domain validation internally.
	Insert(ctx context.Context, record *domain.ProgressRecord) error

	// UpdateByID applies the mutation to the record with the given ID and
	// returns the updated record. Returns ErrProgressNotFound if no such
	// record exists.
	UpdateByID(ctx context.Context, id uuid.UUID, m ProgressMutation) (*domain.ProgressRecord, error)

	// UpdateByKey applies the mutation to the record identified by the
	// six-field key. This is the conflict-fallback path used when Insert
	// loses a race against a concurrent save of the same key.
	// Returns ErrProgressNotFound if no such record exists.
	UpdateByKey(ctx context.Context, key domain.ProgressKey, m ProgressMutation) (*domain.ProgressRecord, error)

	// WithTx returns a new ProgressStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProgressStore
}
