package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/service/practice"
	"github.com/bili-app/bili-api/internal/service/progress"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UpdateProfileRequest defines the payload for the profile update endpoint.
type UpdateProfileRequest struct {
	MotherTongue      string `json:"mother_tongue"      validate:"required,oneof=de ru"`
	LearningDirection string `json:"learning_direction" validate:"required,oneof=de-ru ru-de"`
	LearningLevel     string `json:"learning_level"     validate:"required,oneof=A1 A2 B1 B2 C1 C2"`
}

// ProfileResponse defines the response body for profile endpoints.
type ProfileResponse struct {
	UserID            uuid.UUID `json:"user_id"`
	MotherTongue      string    `json:"mother_tongue"`
	LearningDirection string    `json:"learning_direction"`
	LearningLevel     string    `json:"learning_level"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RateWordRequest defines the payload for recording a mastery rating.
type RateWordRequest struct {
	WordFrom     string `json:"word_from"     validate:"required"`
	WordTo       string `json:"word_to"       validate:"required"`
	ExampleFrom  string `json:"example_from"`
	ExampleTo    string `json:"example_to"`
	MasteryLevel int    `json:"mastery_level" validate:"required,min=1,max=5"`
	DayNumber    int    `json:"day_number"    validate:"omitempty,min=1"`
}

// RateWordResponse reports the stored record and whether the rating
// created a new record or updated an existing one.
type RateWordResponse struct {
	Record  *domain.ProgressRecord `json:"record"`
	Outcome string                 `json:"outcome"`
}

// ProgressListResponse wraps a list of progress records.
type ProgressListResponse struct {
	Records []*domain.ProgressRecord `json:"records"`
	Count   int                      `json:"count"`
}

// VocabularyDayResponse returns the vocabulary items for one day.
type VocabularyDayResponse struct {
	Day       int                     `json:"day"`
	Direction string                  `json:"direction"`
	Level     string                  `json:"level"`
	Items     []domain.VocabularyItem `json:"items"`
}

// VocabularyDaysResponse lists the days with available content for a scope.
type VocabularyDaysResponse struct {
	Direction string `json:"direction"`
	Level     string `json:"level"`
	Days      []int  `json:"days"`
}

// StartSessionRequest defines the payload for starting a practice session.
type StartSessionRequest struct {
	MasteryLevel int `json:"mastery_level" validate:"required,min=1,max=5"`
}

// SessionResponse describes the state of a practice session.
type SessionResponse struct {
	SessionID uuid.UUID      `json:"session_id"`
	State     practice.State `json:"state"`
	Remaining int            `json:"remaining"`
	StartedAt time.Time      `json:"started_at"`
}

// SessionCard is the client view of the card under review. The target
// side (word_to, example_to) is withheld until the card is flipped so the
// flip gate cannot be bypassed by reading the response.
type SessionCard struct {
	RecordID     uuid.UUID `json:"record_id"`
	WordFrom     string    `json:"word_from"`
	ExampleFrom  string    `json:"example_from,omitempty"`
	WordTo       string    `json:"word_to,omitempty"`
	ExampleTo    string    `json:"example_to,omitempty"`
	MasteryLevel int       `json:"mastery_level"`
	DayNumber    int       `json:"day_number"`
}

// SessionCardResponse describes the card currently shown in a session.
type SessionCardResponse struct {
	SessionID uuid.UUID      `json:"session_id"`
	State     practice.State `json:"state"`
	Remaining int            `json:"remaining"`
	Flipped   bool           `json:"flipped"`
	Card      *SessionCard   `json:"card,omitempty"`
}

// StatisticsResponse wraps the computed progress statistics.
type StatisticsResponse struct {
	Statistics progress.Statistics `json:"statistics"`
}
