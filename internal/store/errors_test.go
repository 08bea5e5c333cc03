package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic not found", err: ErrNotFound, expected: true},
		{name: "user not found", err: ErrUserNotFound, expected: true},
		{name: "profile not found", err: ErrProfileNotFound, expected: true},
		{name: "progress not found", err: ErrProgressNotFound, expected: true},
		{name: "wrapped not found", err: fmt.Errorf("lookup failed: %w", ErrProgressNotFound), expected: true},
		{name: "duplicate error", err: ErrDuplicate, expected: false},
		{name: "unrelated error", err: errors.New("connection refused"), expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic duplicate", err: ErrDuplicate, expected: true},
		{name: "email exists", err: ErrEmailExists, expected: true},
		{name: "progress exists", err: ErrProgressExists, expected: true},
		{name: "wrapped duplicate", err: fmt.Errorf("insert failed: %w", ErrProgressExists), expected: true},
		{name: "not found error", err: ErrUserNotFound, expected: false},
		{name: "unrelated error", err: errors.New("timeout"), expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsDuplicateError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Run("formats with wrapped error", func(t *testing.T) {
		underlying := errors.New("deadlock detected")
		err := NewStoreError("progress record", "update", "could not apply rating", underlying)

		assert.Equal(t,
			"update operation on progress record failed: could not apply rating: deadlock detected",
			err.Error())
		assert.ErrorIs(t, err, underlying)
	})

	t.Run("formats without wrapped error", func(t *testing.T) {
		err := NewStoreError("user", "insert", "constraint violated", nil)

		assert.Equal(t, "insert operation on user failed: constraint violated", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("preserves sentinel through wrapping", func(t *testing.T) {
		err := NewStoreError("profile", "select", "no row", ErrProfileNotFound)

		assert.True(t, IsNotFoundError(err))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
