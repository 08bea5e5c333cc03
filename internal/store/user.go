package store

import (
	"context"
	"database/sql"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// It handles domain validation and password hashing internally.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user contains all fields except the plaintext password.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user contains all fields except the plaintext password.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}

// ProfileStore defines the interface for user profile persistence.
type ProfileStore interface {
	// GetByUserID retrieves the profile for the given user.
	// Returns ErrProfileNotFound if the user has not completed onboarding.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)

	// Save inserts or replaces the profile for profile.UserID. Profiles
	// have a single row per user, so saving an existing profile overwrites
	// the language settings in place.
	Save(ctx context.Context, profile *domain.UserProfile) error

	// WithTx returns a new ProfileStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
