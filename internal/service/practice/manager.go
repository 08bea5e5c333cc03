package practice

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/platform/logger"
	"github.com/bili-app/bili-api/internal/service/progress"
	"github.com/google/uuid"
)

// Manager creates and tracks in-memory practice sessions. Sessions are
// process-local, matching the single-client nature of a practice run;
// callers drop a session once it completes or is abandoned.
type Manager struct {
	tracker progress.Tracker
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a new practice session manager.
func NewManager(tracker progress.Tracker, log *slog.Logger) *Manager {
	if tracker == nil {
		panic("tracker cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &Manager{
		tracker:  tracker,
		logger:   log.With(slog.String("component", "practice_manager")),
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Start opens a session over the scope's bucket for the given mastery
// level. The working set is the bucket's cards in cache order. A bucket
// with no cards yields a session that is already complete.
func (m *Manager) Start(ctx context.Context, scope progress.Scope, masteryLevel int) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateMasteryLevel(masteryLevel); err != nil {
		return nil, err
	}

	cards := m.tracker.ByMastery(ctx, scope, masteryLevel)
	session := newSession(m.tracker, scope, masteryLevel, cards)

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	log.Debug("practice session started",
		slog.String("session_id", session.ID.String()),
		slog.String("scope", scope.String()),
		slog.Int("mastery_level", masteryLevel),
		slog.Int("cards", len(cards)))
	return session, nil
}

// Get returns the session with the given ID, restricted to its owning
// user. Returns ErrSessionNotFound for unknown IDs and for sessions owned
// by someone else, so session IDs cannot be probed across users.
func (m *Manager) Get(id uuid.UUID, userID uuid.UUID) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || session.Scope.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Drop removes a session from the registry.
func (m *Manager) Drop(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
