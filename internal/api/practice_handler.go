package api

import (
	"net/http"

	"github.com/bili-app/bili-api/internal/api/shared"
	"github.com/bili-app/bili-api/internal/service/practice"
	"github.com/bili-app/bili-api/internal/service/progress"
	"github.com/bili-app/bili-api/internal/store"
)

// PracticeHandler handles practice session API requests.
type PracticeHandler struct {
	manager      *practice.Manager
	profileStore store.ProfileStore
}

// NewPracticeHandler creates a new PracticeHandler with the given dependencies.
func NewPracticeHandler(manager *practice.Manager, profileStore store.ProfileStore) *PracticeHandler {
	if manager == nil {
		panic("manager cannot be nil")
	}
	if profileStore == nil {
		panic("profileStore cannot be nil")
	}
	return &PracticeHandler{
		manager:      manager,
		profileStore: profileStore,
	}
}

// StartSession handles POST /practice/sessions, opening a session over one
// mastery bucket of the learner's current scope.
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profileStore.GetByUserID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	scope := progress.Scope{
		UserID:    userID,
		Direction: profile.LearningDirection,
		Level:     profile.LearningLevel,
	}

	session, err := h.manager.Start(r.Context(), scope, req.MasteryLevel)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{
		SessionID: session.ID,
		State:     session.State(),
		Remaining: session.Remaining(),
		StartedAt: session.StartedAt,
	})
}

// getSession resolves the session from the path, enforcing ownership.
func (h *PracticeHandler) getSession(w http.ResponseWriter, r *http.Request) (*practice.Session, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return nil, false
	}

	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	session, err := h.manager.Get(sessionID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return session, true
}

// cardResponse snapshots the session's current card. When the session is
// complete the card is omitted and the state says so. The card's target
// side is included only after the flip.
func cardResponse(s *practice.Session) SessionCardResponse {
	resp := SessionCardResponse{
		SessionID: s.ID,
		State:     s.State(),
		Remaining: s.Remaining(),
	}
	card, _, flipped, err := s.Current()
	if err == nil {
		view := &SessionCard{
			RecordID:     card.ID,
			WordFrom:     card.WordFrom,
			ExampleFrom:  card.ExampleFrom,
			MasteryLevel: card.MasteryLevel,
			DayNumber:    card.DayNumber,
		}
		if flipped {
			view.WordTo = card.WordTo
			view.ExampleTo = card.ExampleTo
		}
		resp.Card = view
		resp.Flipped = flipped
		resp.State = s.State()
	}
	return resp
}

// CurrentCard handles GET /practice/sessions/{id}/current.
func (h *PracticeHandler) CurrentCard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSession(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardResponse(session))
}

// FlipCard handles POST /practice/sessions/{id}/flip.
func (h *PracticeHandler) FlipCard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSession(w, r)
	if !ok {
		return
	}

	if err := session.Flip(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardResponse(session))
}

// RateCard handles POST /practice/sessions/{id}/rate. The rating is
// rejected unless the card has been flipped.
func (h *PracticeHandler) RateCard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSession(w, r)
	if !ok {
		return
	}

	var req struct {
		MasteryLevel int `json:"mastery_level" validate:"required,min=1,max=5"`
	}
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if _, err := session.Rate(r.Context(), req.MasteryLevel); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if session.State() == practice.StateComplete {
		h.manager.Drop(session.ID)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardResponse(session))
}

// NextCard handles POST /practice/sessions/{id}/next.
func (h *PracticeHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSession(w, r)
	if !ok {
		return
	}

	if err := session.Next(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardResponse(session))
}

// PreviousCard handles POST /practice/sessions/{id}/previous.
func (h *PracticeHandler) PreviousCard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSession(w, r)
	if !ok {
		return
	}

	if err := session.Previous(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardResponse(session))
}

// EndSession handles DELETE /practice/sessions/{id}.
func (h *PracticeHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSession(w, r)
	if !ok {
		return
	}

	h.manager.Drop(session.ID)
	w.WriteHeader(http.StatusNoContent)
}
