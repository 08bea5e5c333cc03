package api

import (
	"net/http"

	"github.com/bili-app/bili-api/internal/api/shared"
	"github.com/bili-app/bili-api/internal/content"
	"github.com/bili-app/bili-api/internal/store"
)

// VocabularyHandler serves the static vocabulary catalog, scoped to the
// learner's profile direction and level.
type VocabularyHandler struct {
	catalog      *content.Catalog
	profileStore store.ProfileStore
}

// NewVocabularyHandler creates a new VocabularyHandler with the given dependencies.
func NewVocabularyHandler(catalog *content.Catalog, profileStore store.ProfileStore) *VocabularyHandler {
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	if profileStore == nil {
		panic("profileStore cannot be nil")
	}
	return &VocabularyHandler{
		catalog:      catalog,
		profileStore: profileStore,
	}
}

// ListDays handles GET /vocabulary/days, returning the days with content
// for the learner's scope.
func (h *VocabularyHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profileStore.GetByUserID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, VocabularyDaysResponse{
		Direction: profile.LearningDirection,
		Level:     profile.LearningLevel,
		Days:      h.catalog.Days(profile.LearningLevel, profile.LearningDirection),
	})
}

// ForDay handles GET /vocabulary/day/{day}, returning one day's items for
// the learner's scope. A day without content returns an empty list, not
// an error, so the client can render an empty deck.
func (h *VocabularyHandler) ForDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profileStore.GetByUserID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	day, err := getPathInt(r, "day", 1, 365)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, VocabularyDayResponse{
		Day:       day,
		Direction: profile.LearningDirection,
		Level:     profile.LearningLevel,
		Items:     h.catalog.ForDay(profile.LearningLevel, profile.LearningDirection, day),
	})
}
