package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUserProfile(t *testing.T) {
	userID := uuid.New()

	profile, err := NewUserProfile(userID, TongueGerman, DirectionGermanToRussian, "A1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if profile.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, profile.UserID)
	}
	if profile.CreatedAt.IsZero() || profile.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewUserProfileInvalid(t *testing.T) {
	userID := uuid.New()

	_, err := NewUserProfile(uuid.Nil, TongueGerman, DirectionGermanToRussian, "A1")
	if !errors.Is(err, ErrEmptyProfileUserID) {
		t.Errorf("Expected ErrEmptyProfileUserID, got %v", err)
	}

	_, err = NewUserProfile(userID, "fr", DirectionGermanToRussian, "A1")
	if !errors.Is(err, ErrInvalidMotherTongue) {
		t.Errorf("Expected ErrInvalidMotherTongue, got %v", err)
	}

	_, err = NewUserProfile(userID, TongueRussian, "ru-en", "A1")
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}

	_, err = NewUserProfile(userID, TongueRussian, DirectionRussianToGerman, "D1")
	if !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}
}

func TestValidateDirection(t *testing.T) {
	for _, direction := range []string{DirectionGermanToRussian, DirectionRussianToGerman} {
		if err := ValidateDirection(direction); err != nil {
			t.Errorf("Expected direction %q to be valid, got %v", direction, err)
		}
	}
	if err := ValidateDirection(""); !errors.Is(err, ErrEmptyDirection) {
		t.Errorf("Expected ErrEmptyDirection, got %v", err)
	}
	if err := ValidateDirection("de-en"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
}

func TestValidateLevel(t *testing.T) {
	for _, level := range []string{"A1", "A2", "B1", "B2", "C1", "C2"} {
		if err := ValidateLevel(level); err != nil {
			t.Errorf("Expected level %q to be valid, got %v", level, err)
		}
	}
	if err := ValidateLevel(""); !errors.Is(err, ErrEmptyLevel) {
		t.Errorf("Expected ErrEmptyLevel, got %v", err)
	}
	if err := ValidateLevel("a1"); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel for lowercase code, got %v", err)
	}
}
