package api

import (
	"net/http"
	"time"

	"github.com/bili-app/bili-api/internal/api/shared"
	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/service/progress"
	"github.com/bili-app/bili-api/internal/store"
)

// ProgressHandler handles mastery progress API requests. Every route is
// scoped by the learner's profile: the profile's direction and level pick
// which mastery board the request operates on.
type ProgressHandler struct {
	tracker      progress.Tracker
	profileStore store.ProfileStore
}

// NewProgressHandler creates a new ProgressHandler with the given dependencies.
func NewProgressHandler(tracker progress.Tracker, profileStore store.ProfileStore) *ProgressHandler {
	if tracker == nil {
		panic("tracker cannot be nil")
	}
	if profileStore == nil {
		panic("profileStore cannot be nil")
	}
	return &ProgressHandler{
		tracker:      tracker,
		profileStore: profileStore,
	}
}

// resolveScope authenticates the request and resolves the learner's scope
// from their profile. Writes an error response and returns ok=false when
// either step fails.
func (h *ProgressHandler) resolveScope(
	w http.ResponseWriter,
	r *http.Request,
) (progress.Scope, *domain.UserProfile, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return progress.Scope{}, nil, false
	}

	profile, err := h.profileStore.GetByUserID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return progress.Scope{}, nil, false
	}

	scope := progress.Scope{
		UserID:    userID,
		Direction: profile.LearningDirection,
		Level:     profile.LearningLevel,
	}
	return scope, profile, true
}

// ListProgress handles GET /progress, returning every cached record for
// the learner's current scope, most recently practiced first.
func (h *ProgressHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	records := h.tracker.Records(r.Context(), scope)
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressListResponse{
		Records: records,
		Count:   len(records),
	})
}

// RateWord handles POST /progress/ratings, recording a mastery rating for
// a word. Creates the record on first rating, otherwise overwrites the
// mastery level and increments the practice counter.
func (h *ProgressHandler) RateWord(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	var req RateWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	word := domain.VocabularyItem{
		From:        req.WordFrom,
		To:          req.WordTo,
		ExampleFrom: req.ExampleFrom,
		ExampleTo:   req.ExampleTo,
		Day:         req.DayNumber,
	}

	result, err := h.tracker.SaveProgress(r.Context(), scope, word, req.MasteryLevel)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	status := http.StatusOK
	if result.Outcome == progress.OutcomeCreated {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, RateWordResponse{
		Record:  result.Record,
		Outcome: string(result.Outcome),
	})
}

// RateRecord handles POST /progress/{id}/rating, re-rating a record the
// learner already holds.
func (h *ProgressHandler) RateRecord(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	recordID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
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

	record, err := h.tracker.RateByID(r.Context(), scope, recordID, req.MasteryLevel)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RateWordResponse{
		Record:  record,
		Outcome: string(progress.OutcomeUpdated),
	})
}

// ByMastery handles GET /progress/mastery/{level}, returning the records
// in one mastery bucket.
func (h *ProgressHandler) ByMastery(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	level, err := getPathInt(r, "level", domain.MasteryNeedHelp, domain.MasteryPerfect)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	records := h.tracker.ByMastery(r.Context(), scope, level)
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressListResponse{
		Records: records,
		Count:   len(records),
	})
}

// ByDay handles GET /progress/day/{day}, returning the records practiced
// under one vocabulary day.
func (h *ProgressHandler) ByDay(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	day, err := getPathInt(r, "day", 1, 365)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	records := h.tracker.ForDay(r.Context(), scope, day)
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressListResponse{
		Records: records,
		Count:   len(records),
	})
}

// Statistics handles GET /progress/stats, returning aggregate mastery
// statistics for the learner's current scope.
func (h *ProgressHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	scope, profile, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	stats := h.tracker.Statistics(r.Context(), scope, profile.CreatedAt, time.Now())
	shared.RespondWithJSON(w, r, http.StatusOK, StatisticsResponse{Statistics: stats})
}

// Refresh handles POST /progress/refresh, discarding the cached records
// for the scope and reloading them from the store.
func (h *ProgressHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	scope, _, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	records := h.tracker.Refresh(r.Context(), scope)
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressListResponse{
		Records: records,
		Count:   len(records),
	})
}
