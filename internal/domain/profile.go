package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Learning directions supported by the app. A direction is the ordered
// language pair being learned; progress is partitioned per direction, so
// switching direction starts a fresh mastery board.
const (
	DirectionGermanToRussian = "de-ru"
	DirectionRussianToGerman = "ru-de"
)

// Mother tongues selectable during onboarding.
const (
	TongueGerman  = "de"
	TongueRussian = "ru"
)

// Common validation errors for UserProfile
var (
	ErrEmptyProfileUserID  = errors.New("profile user ID cannot be empty")
	ErrEmptyMotherTongue   = errors.New("mother tongue cannot be empty")
	ErrInvalidMotherTongue = errors.New("invalid mother tongue")
)

// validLevels are the CEFR levels the profile accepts. Only A1 and A2 ship
// vocabulary content today; the rest are accepted so a profile saved ahead
// of content does not break.
var validLevels = map[string]bool{
	"A1": true, "A2": true, "B1": true, "B2": true, "C1": true, "C2": true,
}

// UserProfile carries the learner's language settings. The mastery tracker
// reads Direction and Level to scope every progress query and write; it
// never mutates the profile.
type UserProfile struct {
	UserID            uuid.UUID `json:"user_id"`
	MotherTongue      string    `json:"mother_tongue"`
	LearningDirection string    `json:"learning_direction"`
	LearningLevel     string    `json:"learning_level"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewUserProfile creates a profile with the given language settings.
// Returns an error if validation fails.
func NewUserProfile(userID uuid.UUID, motherTongue, direction, level string) (*UserProfile, error) {
	now := time.Now().UTC()
	profile := &UserProfile{
		UserID:            userID,
		MotherTongue:      motherTongue,
		LearningDirection: direction,
		LearningLevel:     level,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the UserProfile has valid data.
func (p *UserProfile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProfileUserID
	}
	if p.MotherTongue == "" {
		return ErrEmptyMotherTongue
	}
	if p.MotherTongue != TongueGerman && p.MotherTongue != TongueRussian {
		return ErrInvalidMotherTongue
	}
	if err := ValidateDirection(p.LearningDirection); err != nil {
		return err
	}
	return ValidateLevel(p.LearningLevel)
}

// ValidateDirection checks that the direction is one of the supported
// ordered language pairs.
func ValidateDirection(direction string) error {
	switch direction {
	case "":
		return ErrEmptyDirection
	case DirectionGermanToRussian, DirectionRussianToGerman:
		return nil
	default:
		return ErrInvalidDirection
	}
}

// ValidateLevel checks that the level is a known CEFR code.
func ValidateLevel(level string) error {
	if level == "" {
		return ErrEmptyLevel
	}
	if !validLevels[level] {
		return ErrInvalidLevel
	}
	return nil
}
