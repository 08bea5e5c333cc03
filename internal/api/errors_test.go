package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/service/auth"
	"github.com/bili-app/bili-api/internal/service/practice"
	"github.com/bili-app/bili-api/internal/service/progress"
	"github.com/bili-app/bili-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"not authenticated", progress.ErrNotAuthenticated, http.StatusUnauthorized},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"profile not found", store.ErrProfileNotFound, http.StatusNotFound},
		{"progress not found", store.ErrProgressNotFound, http.StatusNotFound},
		{"record not found", progress.ErrRecordNotFound, http.StatusNotFound},
		{"session not found", practice.ErrSessionNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"session complete", practice.ErrSessionComplete, http.StatusConflict},
		{"invalid mastery level", domain.ErrInvalidMasteryLevel, http.StatusBadRequest},
		{"invalid direction", domain.ErrInvalidDirection, http.StatusBadRequest},
		{"invalid level", domain.ErrInvalidLevel, http.StatusBadRequest},
		{"not flipped", practice.ErrNotFlipped, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"wrapped error keeps mapping", fmt.Errorf("save: %w", store.ErrEmailExists), http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	// The raw error text must never leak through the safe message.
	raw := fmt.Errorf("pq: duplicate key value violates unique constraint: %w", store.ErrEmailExists)
	msg := GetSafeErrorMessage(raw)
	assert.Equal(t, "Email already exists", msg)
	assert.NotContains(t, msg, "pq:")

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("internal detail")))
	assert.Equal(t, "Card must be flipped before rating", GetSafeErrorMessage(practice.ErrNotFlipped))
	assert.Equal(t, "Mastery level must be between 1 and 5", GetSafeErrorMessage(domain.ErrInvalidMasteryLevel))
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
	)
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
