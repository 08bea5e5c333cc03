package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mastery levels are the learner's self-rating of a word, from 1 ("needs
// help") up to 5 ("perfect").
const (
	MasteryNeedHelp  = 1
	MasteryDifficult = 2
	MasteryOK        = 3
	MasteryGood      = 4
	MasteryPerfect   = 5
)

// Common validation errors for ProgressRecord
var (
	ErrEmptyProgressUserID   = errors.New("progress record user ID cannot be empty")
	ErrEmptyWordFrom         = errors.New("progress record source word cannot be empty")
	ErrEmptyWordTo           = errors.New("progress record target word cannot be empty")
	ErrEmptyDirection        = errors.New("learning direction cannot be empty")
	ErrInvalidDirection      = errors.New("invalid learning direction")
	ErrEmptyLevel            = errors.New("learning level cannot be empty")
	ErrInvalidLevel          = errors.New("invalid learning level")
	ErrInvalidDayNumber      = errors.New("day number must be greater than 0")
	ErrInvalidMasteryLevel   = errors.New("mastery level must be between 1 and 5")
	ErrInvalidTimesPracticed = errors.New("times practiced must be at least 1")
)

// ProgressKey is the six-field natural key of a progress record. No two
// records may coexist with all six fields equal; every lookup, update and
// conflict-fallback path identifies a record by this key.
type ProgressKey struct {
	UserID    uuid.UUID
	WordFrom  string
	WordTo    string
	Direction string
	Level     string
	DayNumber int
}

// String renders the key for log output. The user ID is included in full
// because keys are only ever logged server-side.
func (k ProgressKey) String() string {
	return fmt.Sprintf("%s/%s→%s/%s/%s/day%d",
		k.UserID, k.WordFrom, k.WordTo, k.Direction, k.Level, k.DayNumber)
}

// Validate checks that all six key fields are present and well-formed.
func (k ProgressKey) Validate() error {
	if k.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}
	if k.WordFrom == "" {
		return ErrEmptyWordFrom
	}
	if k.WordTo == "" {
		return ErrEmptyWordTo
	}
	if err := ValidateDirection(k.Direction); err != nil {
		return err
	}
	if err := ValidateLevel(k.Level); err != nil {
		return err
	}
	if k.DayNumber < 1 {
		return ErrInvalidDayNumber
	}
	return nil
}

// ProgressRecord tracks a learner's self-assessed mastery of one vocabulary
// item within a (direction, level) scope. Records are created on the first
// rating of a word and mutated on every later rating; they are never
// deleted.
type ProgressRecord struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	WordFrom       string    `json:"word_from"`
	WordTo         string    `json:"word_to"`
	ExampleFrom    string    `json:"example_from"`
	ExampleTo      string    `json:"example_to"`
	Direction      string    `json:"language_direction"`
	Level          string    `json:"learning_level"`
	DayNumber      int       `json:"day_number"`
	MasteryLevel   int       `json:"mastery_level"`
	TimesPracticed int       `json:"times_practiced"`
	LastPracticed  time.Time `json:"last_practiced"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewProgressRecord creates a record for the first rating of a word.
// TimesPracticed starts at 1 and LastPracticed is set to now.
// Returns an error if validation fails.
func NewProgressRecord(key ProgressKey, word VocabularyItem, masteryLevel int) (*ProgressRecord, error) {
	now := time.Now().UTC()
	record := &ProgressRecord{
		ID:             uuid.New(),
		UserID:         key.UserID,
		WordFrom:       key.WordFrom,
		WordTo:         key.WordTo,
		ExampleFrom:    word.ExampleFrom,
		ExampleTo:      word.ExampleTo,
		Direction:      key.Direction,
		Level:          key.Level,
		DayNumber:      key.DayNumber,
		MasteryLevel:   masteryLevel,
		TimesPracticed: 1,
		LastPracticed:  now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Key returns the six-field identity key of the record.
func (r *ProgressRecord) Key() ProgressKey {
	return ProgressKey{
		UserID:    r.UserID,
		WordFrom:  r.WordFrom,
		WordTo:    r.WordTo,
		Direction: r.Direction,
		Level:     r.Level,
		DayNumber: r.DayNumber,
	}
}

// Validate checks if the ProgressRecord has valid data.
// Returns an error if any field fails validation.
func (r *ProgressRecord) Validate() error {
	if err := r.Key().Validate(); err != nil {
		return err
	}
	if err := ValidateMasteryLevel(r.MasteryLevel); err != nil {
		return err
	}
	if r.TimesPracticed < 1 {
		return ErrInvalidTimesPracticed
	}
	return nil
}

// ValidateMasteryLevel rejects self-ratings outside the 1..5 range.
func ValidateMasteryLevel(level int) error {
	if level < MasteryNeedHelp || level > MasteryPerfect {
		return ErrInvalidMasteryLevel
	}
	return nil
}
