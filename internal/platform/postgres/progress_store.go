package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/platform/logger"
	"github.com/bili-app/bili-api/internal/store"
	"github.com/google/uuid"
)

// progressColumns is the select list shared by every progress query, in
// scan order.
const progressColumns = `id, user_id, word_from, word_to, example_from, example_to,
	language_direction, learning_level, day_number, mastery_level,
	times_practiced, last_practiced, created_at, updated_at`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// FindByScope implements store.ProgressStore.FindByScope
// It retrieves all progress records for the (user, direction, level) scope,
// most recently practiced first.
func (s *PostgresProgressStore) FindByScope(
	ctx context.Context,
	userID uuid.UUID,
	direction, level string,
) ([]*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("loading progress records",
		slog.String("user_id", userID.String()),
		slog.String("direction", direction),
		slog.String("level", level))

	query := `
		SELECT ` + progressColumns + `
		FROM flashcard_progress
		WHERE user_id = $1 AND language_direction = $2 AND learning_level = $3
		ORDER BY last_practiced DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, direction, level)
	if err != nil {
		log.Error("failed to query progress records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var records []*domain.ProgressRecord
	for rows.Next() {
		record, err := scanProgressRecord(rows)
		if err != nil {
			log.Error("failed to scan progress row",
				slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	// Return empty slice instead of nil if the scope has no records yet
	if records == nil {
		records = []*domain.ProgressRecord{}
	}

	log.Debug("loaded progress records",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(records)))
	return records, nil
}

// Insert implements store.ProgressStore.Insert
// It saves a new progress record, handling domain validation.
// Returns store.ErrProgressExists if the six-field identity key is already
// taken, so callers can distinguish the lost-insert race from other
// failures.
func (s *PostgresProgressStore) Insert(ctx context.Context, record *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("progress record validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	query := `
		INSERT INTO flashcard_progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.WordFrom,
		record.WordTo,
		record.ExampleFrom,
		record.ExampleTo,
		record.Direction,
		record.Level,
		record.DayNumber,
		record.MasteryLevel,
		record.TimesPracticed,
		record.LastPracticed,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("progress record identity key already exists",
				slog.String("key", record.Key().String()))
			return store.ErrProgressExists
		}

		log.Error("failed to insert progress record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()),
			slog.String("user_id", record.UserID.String()))
		return MapError(err)
	}

	log.Info("progress record created",
		slog.String("record_id", record.ID.String()),
		slog.String("user_id", record.UserID.String()),
		slog.Int("mastery_level", record.MasteryLevel))
	return nil
}

// UpdateByID implements store.ProgressStore.UpdateByID
// It applies the mutation to the record with the given ID.
// Returns store.ErrProgressNotFound if the record does not exist.
func (s *PostgresProgressStore) UpdateByID(
	ctx context.Context,
	id uuid.UUID,
	m store.ProgressMutation,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating progress record by id",
		slog.String("record_id", id.String()),
		slog.Int("mastery_level", m.MasteryLevel))

	query := `
		UPDATE flashcard_progress
		SET mastery_level = $1, times_practiced = $2, last_practiced = $3, updated_at = $4
		WHERE id = $5
		RETURNING ` + progressColumns

	record, err := scanProgressRecord(s.db.QueryRowContext(
		ctx,
		query,
		m.MasteryLevel,
		m.TimesPracticed,
		m.LastPracticed,
		m.UpdatedAt,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress record not found for update",
				slog.String("record_id", id.String()))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to update progress record",
			slog.String("error", err.Error()),
			slog.String("record_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("progress record updated",
		slog.String("record_id", record.ID.String()),
		slog.Int("mastery_level", record.MasteryLevel),
		slog.Int("times_practiced", record.TimesPracticed))
	return record, nil
}

// UpdateByKey implements store.ProgressStore.UpdateByKey
// It applies the mutation to the record identified by the six-field key.
// This is the conflict-fallback path of the tracker's upsert: it runs only
// after an Insert lost the race, so the row is expected to exist.
// Returns store.ErrProgressNotFound if it does not.
func (s *PostgresProgressStore) UpdateByKey(
	ctx context.Context,
	key domain.ProgressKey,
	m store.ProgressMutation,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating progress record by identity key",
		slog.String("key", key.String()),
		slog.Int("mastery_level", m.MasteryLevel))

	query := `
		UPDATE flashcard_progress
		SET mastery_level = $1, times_practiced = $2, last_practiced = $3, updated_at = $4
		WHERE user_id = $5 AND word_from = $6 AND word_to = $7
			AND language_direction = $8 AND learning_level = $9 AND day_number = $10
		RETURNING ` + progressColumns

	record, err := scanProgressRecord(s.db.QueryRowContext(
		ctx,
		query,
		m.MasteryLevel,
		m.TimesPracticed,
		m.LastPracticed,
		m.UpdatedAt,
		key.UserID,
		key.WordFrom,
		key.WordTo,
		key.Direction,
		key.Level,
		key.DayNumber,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("progress record not found for key update",
				slog.String("key", key.String()))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to update progress record by key",
			slog.String("error", err.Error()),
			slog.String("key", key.String()))
		return nil, MapError(err)
	}

	log.Info("progress record updated via key fallback",
		slog.String("record_id", record.ID.String()),
		slog.Int("mastery_level", record.MasteryLevel))
	return record, nil
}

// WithTx implements store.ProgressStore.WithTx
// It returns a new store instance bound to the provided transaction.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgressRecord(row rowScanner) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.WordFrom,
		&record.WordTo,
		&record.ExampleFrom,
		&record.ExampleTo,
		&record.Direction,
		&record.Level,
		&record.DayNumber,
		&record.MasteryLevel,
		&record.TimesPracticed,
		&record.LastPracticed,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
