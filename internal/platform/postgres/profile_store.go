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

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the
// ProfileStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// GetByUserID implements store.ProfileStore.GetByUserID
// Returns store.ErrProfileNotFound if the user has no saved profile.
func (s *PostgresProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, mother_tongue, learning_direction, learning_level, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var profile domain.UserProfile
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.MotherTongue,
		&profile.LearningDirection,
		&profile.LearningLevel,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found",
				slog.String("user_id", userID.String()))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return &profile, nil
}

// Save implements store.ProfileStore.Save
// Profiles are one row per user; an existing row has its language settings
// overwritten in place. This is a plain single-column-key upsert, unlike
// progress records whose composite key forces the insert-then-update
// protocol at the tracker level.
func (s *PostgresProfileStore) Save(ctx context.Context, profile *domain.UserProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during save",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return err
	}

	query := `
		INSERT INTO user_profiles (user_id, mother_tongue, learning_direction, learning_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET mother_tongue = EXCLUDED.mother_tongue,
			learning_direction = EXCLUDED.learning_direction,
			learning_level = EXCLUDED.learning_level,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.MotherTongue,
		profile.LearningDirection,
		profile.LearningLevel,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to save profile",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return MapError(err)
	}

	log.Info("profile saved",
		slog.String("user_id", profile.UserID.String()),
		slog.String("direction", profile.LearningDirection),
		slog.String("level", profile.LearningLevel))
	return nil
}

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{
		db:     tx,
		logger: s.logger,
	}
}
