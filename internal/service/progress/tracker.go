// Package progress implements the mastery tracker: it owns the lifecycle
// of per-word, per-user progress records, scoped to the learner's current
// direction and level.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/google/uuid"
)

// Common tracker errors
var (
	// ErrNotAuthenticated indicates a save was attempted without a
	// resolvable user. The tracker fails fast instead of issuing store
	// calls that cannot succeed.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRecordNotFound indicates the progress record does not exist.
	ErrRecordNotFound = errors.New("progress record not found")
)

// Scope identifies whose progress is being tracked and under which language
// settings. All loads and saves are partitioned by the full scope; switching
// direction or level starts a fresh mastery board.
type Scope struct {
	UserID    uuid.UUID
	Direction string
	Level     string
}

// Validate checks that the scope is complete. A zero user ID means there is
// no authenticated learner behind the request.
func (s Scope) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrNotAuthenticated
	}
	if err := domain.ValidateDirection(s.Direction); err != nil {
		return err
	}
	return domain.ValidateLevel(s.Level)
}

// String renders the scope for log output.
func (s Scope) String() string {
	return fmt.Sprintf("%s/%s/%s", s.UserID, s.Direction, s.Level)
}

// UpsertOutcome reports which path a save took. The branching is an
// explicit result rather than error-driven control flow so tests can pin
// the conflict-fallback behavior directly.
type UpsertOutcome string

const (
	// OutcomeCreated means a new record was inserted (first rating of the word).
	OutcomeCreated UpsertOutcome = "created"

	// OutcomeUpdated means an existing cached record was updated by ID.
	OutcomeUpdated UpsertOutcome = "updated"

	// OutcomeRecovered means the insert lost a race against a concurrent
	// save of the same identity key and the tracker fell back to an update
	// keyed on the six identity fields.
	OutcomeRecovered UpsertOutcome = "recovered"
)

// SaveResult is the typed result of a SaveProgress call.
type SaveResult struct {
	Record  *domain.ProgressRecord
	Outcome UpsertOutcome
}

// Tracker provides mastery tracking over a learner's progress records.
//
// Load populates an in-memory cache per scope; the read methods
// (Records, ByMastery, ForDay, Statistics) serve from that cache without
// I/O. SaveProgress keeps the cache current in place so callers observe
// their own writes without a reload.
type Tracker interface {
	// Load fetches all progress records for the scope, most recently
	// practiced first, and replaces the scope's cache wholesale. Transport
	// errors are logged and leave an empty cache; they are never surfaced,
	// so a learner with an unreachable store sees a freshly-started board
	// rather than an error. Returns the loaded records.
	Load(ctx context.Context, scope Scope) []*domain.ProgressRecord

	// SaveProgress records a rating for a word. If the word has never been
	// rated under the scope (and day), a record is created with
	// times_practiced = 1; otherwise the existing record's mastery level
	// is overwritten, times_practiced incremented and last_practiced
	// refreshed. A uniqueness conflict on insert falls back to an update
	// by identity key (see UpsertOutcome). The day defaults to 1.
	// Returns ErrNotAuthenticated without touching the store when the
	// scope has no user; other store errors propagate for the caller to
	// report.
	SaveProgress(ctx context.Context, scope Scope, word domain.VocabularyItem, masteryLevel int) (*SaveResult, error)

	// RateByID overwrites the mastery level of a record the learner
	// already holds, identified by record ID. times_practiced is
	// incremented and last_practiced refreshed, matching SaveProgress.
	// Returns ErrRecordNotFound if the record is not in the scope's cache.
	RateByID(ctx context.Context, scope Scope, recordID uuid.UUID, masteryLevel int) (*domain.ProgressRecord, error)

	// Records returns the scope's cached records in cache order, loading
	// the scope first if it has never been loaded.
	Records(ctx context.Context, scope Scope) []*domain.ProgressRecord

	// ByMastery filters the scope's cache by mastery level. Pure cache
	// read; order matches cache order (most recently practiced first).
	ByMastery(ctx context.Context, scope Scope, masteryLevel int) []*domain.ProgressRecord

	// ForDay filters the scope's cache by day number. Pure cache read.
	ForDay(ctx context.Context, scope Scope, day int) []*domain.ProgressRecord

	// Statistics computes aggregate statistics from the scope's cache.
	// profileCreatedAt anchors the sessions-per-day average; now anchors
	// the streak walk and supplies the local calendar.
	Statistics(ctx context.Context, scope Scope, profileCreatedAt time.Time, now time.Time) Statistics

	// Refresh reloads the scope from the store, discarding the cache.
	Refresh(ctx context.Context, scope Scope) []*domain.ProgressRecord
}
