// Package practice implements flashcard practice sessions: a small state
// machine over one mastery bucket that sequences cards, gates rating on the
// card being flipped, and drains its working set as cards are rated.
package practice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/service/progress"
	"github.com/google/uuid"
)

// Common practice session errors
var (
	// ErrSessionComplete indicates the working set is empty and no further
	// interaction is possible.
	ErrSessionComplete = errors.New("practice session is complete")

	// ErrNotFlipped indicates a rating was submitted before the
	// translation was revealed. A rating is only meaningful after the
	// learner has seen the answer, so the gate lives here and not in the
	// client.
	ErrNotFlipped = errors.New("card must be flipped before rating")

	// ErrSessionNotFound indicates no session exists with the given ID.
	ErrSessionNotFound = errors.New("practice session not found")
)

// State is the lifecycle state of a practice session.
type State string

const (
	// StateLoaded means the bucket's cards have been fetched but the
	// learner has not started reviewing.
	StateLoaded State = "loaded"

	// StateReviewing means the learner is on a card; the session tracks
	// the current index and flip state.
	StateReviewing State = "reviewing"

	// StateRated is the transient state while a rating is persisted and
	// the card removed from the working set.
	StateRated State = "rated"

	// StateComplete means every card in the working set has been rated.
	StateComplete State = "complete"
)

// Session sequences one practice run over a single mastery bucket.
//
// The working set is session-local: rating a card removes it from the set
// regardless of its new mastery level, so a card is never shown twice in
// the same session even when its rating keeps it in the same bucket.
type Session struct {
	ID           uuid.UUID
	Scope        progress.Scope
	MasteryLevel int
	StartedAt    time.Time

	tracker progress.Tracker

	mu      sync.Mutex
	state   State
	cards   []*domain.ProgressRecord
	index   int
	flipped bool
}

// newSession builds a session over the given working set.
func newSession(tracker progress.Tracker, scope progress.Scope, masteryLevel int, cards []*domain.ProgressRecord) *Session {
	s := &Session{
		ID:           uuid.New(),
		Scope:        scope,
		MasteryLevel: masteryLevel,
		StartedAt:    time.Now().UTC(),
		tracker:      tracker,
		state:        StateLoaded,
		cards:        cards,
	}
	if len(cards) == 0 {
		s.state = StateComplete
	}
	return s
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the number of cards left in the working set.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// Current returns the card under review, its position, and whether it has
// been flipped. Reading the current card moves a freshly loaded session
// into the reviewing state.
// Returns ErrSessionComplete when the working set is empty.
func (s *Session) Current() (*domain.ProgressRecord, int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete {
		return nil, 0, false, ErrSessionComplete
	}
	if s.state == StateLoaded {
		s.state = StateReviewing
	}
	return s.cards[s.index], s.index, s.flipped, nil
}

// Flip reveals the target-language side of the current card. Flipping
// again hides it.
func (s *Session) Flip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete {
		return ErrSessionComplete
	}
	if s.state == StateLoaded {
		s.state = StateReviewing
	}
	s.flipped = !s.flipped
	return nil
}

// Rate submits a mastery rating for the current card. The rating is
// persisted through the tracker, then the card is removed from the working
// set. If the removed card was last in the list the pointer wraps to 0;
// otherwise the next card slides into the vacated slot. An empty working
// set completes the session.
// Returns ErrNotFlipped if the translation has not been revealed.
func (s *Session) Rate(ctx context.Context, masteryLevel int) (*progress.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete {
		return nil, ErrSessionComplete
	}
	if !s.flipped {
		return nil, ErrNotFlipped
	}

	card := s.cards[s.index]
	word := domain.VocabularyItem{
		From:        card.WordFrom,
		To:          card.WordTo,
		ExampleFrom: card.ExampleFrom,
		ExampleTo:   card.ExampleTo,
		Day:         card.DayNumber,
	}

	s.state = StateRated
	result, err := s.tracker.SaveProgress(ctx, s.Scope, word, masteryLevel)
	if err != nil {
		// The card stays in the working set so the learner can retry.
		s.state = StateReviewing
		return nil, err
	}

	s.cards = append(s.cards[:s.index], s.cards[s.index+1:]...)
	s.flipped = false

	if len(s.cards) == 0 {
		s.state = StateComplete
		return result, nil
	}
	if s.index >= len(s.cards) {
		s.index = 0
	}
	s.state = StateReviewing
	return result, nil
}

// Next moves to the following card without rating. A no-op at the last
// card; the pointer never wraps. Navigation resets the flip state.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete {
		return ErrSessionComplete
	}
	if s.state == StateLoaded {
		s.state = StateReviewing
	}
	if s.index < len(s.cards)-1 {
		s.index++
		s.flipped = false
	}
	return nil
}

// Previous moves to the preceding card without rating. A no-op at index 0.
// Navigation resets the flip state.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateComplete {
		return ErrSessionComplete
	}
	if s.state == StateLoaded {
		s.state = StateReviewing
	}
	if s.index > 0 {
		s.index--
		s.flipped = false
	}
	return nil
}
