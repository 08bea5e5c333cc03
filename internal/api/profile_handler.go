package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/bili-app/bili-api/internal/api/shared"
	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/platform/logger"
	"github.com/bili-app/bili-api/internal/store"
)

// ProfileHandler handles language profile API requests.
type ProfileHandler struct {
	profileStore store.ProfileStore
}

// NewProfileHandler creates a new ProfileHandler with the given dependencies.
func NewProfileHandler(profileStore store.ProfileStore) *ProfileHandler {
	if profileStore == nil {
		panic("profileStore cannot be nil")
	}
	return &ProfileHandler{profileStore: profileStore}
}

// GetProfile handles GET /api/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profileStore.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			HandleAPIError(w, r, err, "")
			return
		}
		logger.FromContext(r.Context()).
			Error("failed to get profile", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileResponse(profile))
}

// UpdateProfile handles PUT /api/profile. The profile is an upsert: a user
// who has never saved language settings gets one created.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	profile, err := domain.NewUserProfile(userID, req.MotherTongue, req.LearningDirection, req.LearningLevel)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Preserve the original creation time on update so streak averages
	// stay anchored to when the learner actually started.
	if existing, err := h.profileStore.GetByUserID(r.Context(), userID); err == nil {
		profile.CreatedAt = existing.CreatedAt
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := h.profileStore.Save(r.Context(), profile); err != nil {
		logger.FromContext(r.Context()).
			Error("failed to save profile", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileResponse(profile))
}

func profileResponse(p *domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		UserID:            p.UserID,
		MotherTongue:      p.MotherTongue,
		LearningDirection: p.LearningDirection,
		LearningLevel:     p.LearningLevel,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
