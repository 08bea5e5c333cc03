package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bili-app/bili-api/internal/content"
	"github.com/bili-app/bili-api/internal/domain"
)

func newVocabularyRouter(t *testing.T, profiles *fakeProfileStore) http.Handler {
	t.Helper()

	catalog, err := content.NewCatalog()
	require.NoError(t, err)

	handler := NewVocabularyHandler(catalog, profiles)
	r := chi.NewRouter()
	r.Get("/vocabulary/days", handler.ListDays)
	r.Get("/vocabulary/day/{day}", handler.ForDay)
	return r
}

func TestListVocabularyDays(t *testing.T) {
	userID := uuid.New()
	profiles := newFakeProfileStore()
	seedProfile(t, profiles, userID, domain.DirectionGermanToRussian)
	router := newVocabularyRouter(t, profiles)

	rr := serveAuthed(t, router, http.MethodGet, "/vocabulary/days", "", userID)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp VocabularyDaysResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, domain.DirectionGermanToRussian, resp.Direction)
	assert.Equal(t, "A1", resp.Level)
	require.NotEmpty(t, resp.Days)
	assert.Equal(t, 1, resp.Days[0])
	assert.IsIncreasing(t, resp.Days)
}

func TestVocabularyForDay(t *testing.T) {
	userID := uuid.New()
	profiles := newFakeProfileStore()
	seedProfile(t, profiles, userID, domain.DirectionGermanToRussian)
	router := newVocabularyRouter(t, profiles)

	rr := serveAuthed(t, router, http.MethodGet, "/vocabulary/day/1", "", userID)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp VocabularyDayResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Day)
	require.NotEmpty(t, resp.Items)
	for _, item := range resp.Items {
		assert.NotEmpty(t, item.From)
		assert.NotEmpty(t, item.To)
		assert.Equal(t, 1, item.Day)
	}

	t.Run("day without content returns empty list", func(t *testing.T) {
		rr := serveAuthed(t, router, http.MethodGet, "/vocabulary/day/300", "", userID)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp VocabularyDayResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Empty(t, resp.Items)
	})

	t.Run("day out of range", func(t *testing.T) {
		rr := serveAuthed(t, router, http.MethodGet, "/vocabulary/day/0", "", userID)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestVocabularyMirroredDirection(t *testing.T) {
	deUser := uuid.New()
	ruUser := uuid.New()
	profiles := newFakeProfileStore()
	seedProfile(t, profiles, deUser, domain.DirectionGermanToRussian)
	seedProfile(t, profiles, ruUser, domain.DirectionRussianToGerman)
	router := newVocabularyRouter(t, profiles)

	dayFor := func(userID uuid.UUID) VocabularyDayResponse {
		rr := serveAuthed(t, router, http.MethodGet, "/vocabulary/day/1", "", userID)
		require.Equal(t, http.StatusOK, rr.Code)
		var resp VocabularyDayResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		return resp
	}

	authored := dayFor(deUser)
	mirrored := dayFor(ruUser)

	require.Equal(t, len(authored.Items), len(mirrored.Items))
	assert.Equal(t, authored.Items[0].From, mirrored.Items[0].To)
	assert.Equal(t, authored.Items[0].To, mirrored.Items[0].From)
}

func TestVocabularyRequiresProfile(t *testing.T) {
	router := newVocabularyRouter(t, newFakeProfileStore())

	rr := serveAuthed(t, router, http.MethodGet, "/vocabulary/days", "", uuid.New())
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
