package progress

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/platform/logger"
	"github.com/bili-app/bili-api/internal/store"
	"github.com/google/uuid"
)

// Verify interface compliance at compile time
var _ Tracker = (*trackerImpl)(nil)

// trackerImpl implements the Tracker interface.
//
// The mutex guards the cache map structure only. Saves for the same
// identity key are deliberately not serialized against each other: two
// racing saves both read "does this record exist", and either one insert
// wins while the other recovers via the key-update fallback, or both
// update and the last writer wins. The data is a learner's self-rating, so
// a lost update is acceptable and the fallback guarantees no failure.
type trackerImpl struct {
	progressStore store.ProgressStore
	logger        *slog.Logger

	mu     sync.RWMutex
	caches map[Scope][]*domain.ProgressRecord

	timeFunc func() time.Time // Injectable for testing
}

// NewTracker creates a new Tracker backed by the given progress store.
func NewTracker(progressStore store.ProgressStore, log *slog.Logger) Tracker {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &trackerImpl{
		progressStore: progressStore,
		logger:        log.With(slog.String("component", "mastery_tracker")),
		caches:        make(map[Scope][]*domain.ProgressRecord),
		timeFunc:      time.Now,
	}
}

// Load implements Tracker.Load.
func (t *trackerImpl) Load(ctx context.Context, scope Scope) []*domain.ProgressRecord {
	log := logger.FromContextOrDefault(ctx, t.logger)

	records, err := t.progressStore.FindByScope(ctx, scope.UserID, scope.Direction, scope.Level)
	if err != nil {
		// Non-fatal: the learner gets a freshly-started board instead of
		// an error. The next Load retries.
		log.Error("failed to load progress, starting with empty cache",
			slog.String("error", err.Error()),
			slog.String("scope", scope.String()))
		records = []*domain.ProgressRecord{}
	}

	t.mu.Lock()
	t.caches[scope] = records
	t.mu.Unlock()

	log.Debug("progress cache loaded",
		slog.String("scope", scope.String()),
		slog.Int("count", len(records)))
	return t.snapshot(scope)
}

// Refresh implements Tracker.Refresh.
func (t *trackerImpl) Refresh(ctx context.Context, scope Scope) []*domain.ProgressRecord {
	return t.Load(ctx, scope)
}

// SaveProgress implements Tracker.SaveProgress.
func (t *trackerImpl) SaveProgress(
	ctx context.Context,
	scope Scope,
	word domain.VocabularyItem,
	masteryLevel int,
) (*SaveResult, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	if err := scope.Validate(); err != nil {
		log.Warn("save rejected",
			slog.String("error", err.Error()))
		return nil, err
	}
	if err := domain.ValidateMasteryLevel(masteryLevel); err != nil {
		return nil, err
	}
	if err := word.Validate(); err != nil {
		return nil, err
	}

	day := word.Day
	if day < 1 {
		day = 1
	}
	key := domain.ProgressKey{
		UserID:    scope.UserID,
		WordFrom:  word.From,
		WordTo:    word.To,
		Direction: scope.Direction,
		Level:     scope.Level,
		DayNumber: day,
	}

	now := t.timeFunc().UTC()

	if existing := t.lookup(scope, key); existing != nil {
		// Known record: update by ID.
		updated, err := t.progressStore.UpdateByID(ctx, existing.ID, store.ProgressMutation{
			MasteryLevel:   masteryLevel,
			TimesPracticed: existing.TimesPracticed + 1,
			LastPracticed:  now,
			UpdatedAt:      now,
		})
		if err != nil {
			log.Error("failed to update progress record",
				slog.String("error", err.Error()),
				slog.String("record_id", existing.ID.String()))
			return nil, err
		}

		t.replaceInCache(scope, updated)
		return &SaveResult{Record: updated, Outcome: OutcomeUpdated}, nil
	}

	// First rating of this word under the scope: insert, falling back to
	// an update by identity key when a concurrent save created the row
	// between our cache check and the insert.
	record, err := domain.NewProgressRecord(key, word, masteryLevel)
	if err != nil {
		return nil, err
	}

	err = t.progressStore.Insert(ctx, record)
	if err == nil {
		t.prependToCache(scope, record)
		return &SaveResult{Record: record, Outcome: OutcomeCreated}, nil
	}

	if !store.IsDuplicateError(err) {
		log.Error("failed to insert progress record",
			slog.String("error", err.Error()),
			slog.String("key", key.String()))
		return nil, err
	}

	log.Debug("insert lost race, recovering via key update",
		slog.String("key", key.String()))

	recovered, err := t.progressStore.UpdateByKey(ctx, key, store.ProgressMutation{
		MasteryLevel:   masteryLevel,
		TimesPracticed: 1,
		LastPracticed:  now,
		UpdatedAt:      now,
	})
	if err != nil {
		log.Error("conflict fallback update failed",
			slog.String("error", err.Error()),
			slog.String("key", key.String()))
		return nil, err
	}

	t.replaceOrPrepend(scope, recovered)
	return &SaveResult{Record: recovered, Outcome: OutcomeRecovered}, nil
}

// RateByID implements Tracker.RateByID.
func (t *trackerImpl) RateByID(
	ctx context.Context,
	scope Scope,
	recordID uuid.UUID,
	masteryLevel int,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateMasteryLevel(masteryLevel); err != nil {
		return nil, err
	}

	existing := t.lookupByID(scope, recordID)
	if existing == nil {
		return nil, ErrRecordNotFound
	}

	now := t.timeFunc().UTC()
	updated, err := t.progressStore.UpdateByID(ctx, recordID, store.ProgressMutation{
		MasteryLevel:   masteryLevel,
		TimesPracticed: existing.TimesPracticed + 1,
		LastPracticed:  now,
		UpdatedAt:      now,
	})
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			return nil, ErrRecordNotFound
		}
		log.Error("failed to update rating",
			slog.String("error", err.Error()),
			slog.String("record_id", recordID.String()))
		return nil, err
	}

	t.replaceInCache(scope, updated)
	return updated, nil
}

// Records implements Tracker.Records.
func (t *trackerImpl) Records(ctx context.Context, scope Scope) []*domain.ProgressRecord {
	t.mu.RLock()
	_, ok := t.caches[scope]
	t.mu.RUnlock()
	if !ok {
		return t.Load(ctx, scope)
	}
	return t.snapshot(scope)
}

// ByMastery implements Tracker.ByMastery.
func (t *trackerImpl) ByMastery(ctx context.Context, scope Scope, masteryLevel int) []*domain.ProgressRecord {
	out := []*domain.ProgressRecord{}
	for _, record := range t.Records(ctx, scope) {
		if record.MasteryLevel == masteryLevel {
			out = append(out, record)
		}
	}
	return out
}

// ForDay implements Tracker.ForDay.
func (t *trackerImpl) ForDay(ctx context.Context, scope Scope, day int) []*domain.ProgressRecord {
	out := []*domain.ProgressRecord{}
	for _, record := range t.Records(ctx, scope) {
		if record.DayNumber == day {
			out = append(out, record)
		}
	}
	return out
}

// snapshot returns a copy of the scope's cache slice so callers can iterate
// without holding the lock. Records themselves are shared.
func (t *trackerImpl) snapshot(scope Scope) []*domain.ProgressRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cached := t.caches[scope]
	out := make([]*domain.ProgressRecord, len(cached))
	copy(out, cached)
	return out
}

func (t *trackerImpl) lookup(scope Scope, key domain.ProgressKey) *domain.ProgressRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, record := range t.caches[scope] {
		if record.Key() == key {
			return record
		}
	}
	return nil
}

func (t *trackerImpl) lookupByID(scope Scope, id uuid.UUID) *domain.ProgressRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, record := range t.caches[scope] {
		if record.ID == id {
			return record
		}
	}
	return nil
}

func (t *trackerImpl) prependToCache(scope Scope, record *domain.ProgressRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.caches[scope] = append([]*domain.ProgressRecord{record}, t.caches[scope]...)
}

func (t *trackerImpl) replaceInCache(scope Scope, record *domain.ProgressRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, cached := range t.caches[scope] {
		if cached.ID == record.ID {
			t.caches[scope][i] = record
			return
		}
	}
}

// replaceOrPrepend handles the recovered-conflict case: the record exists
// in the store but may or may not be in our cache.
func (t *trackerImpl) replaceOrPrepend(scope Scope, record *domain.ProgressRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, cached := range t.caches[scope] {
		if cached.ID == record.ID {
			t.caches[scope][i] = record
			return
		}
	}
	t.caches[scope] = append([]*domain.ProgressRecord{record}, t.caches[scope]...)
}
