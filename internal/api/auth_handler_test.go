package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bili-app/bili-api/internal/config"
	"github.com/bili-app/bili-api/internal/domain"
	"github.com/bili-app/bili-api/internal/service/auth"
	"github.com/bili-app/bili-api/internal/store"
)

type fakeUserStore struct {
	byEmail    map[string]*domain.User
	createErr  error
	getByEmail error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return store.ErrEmailExists
	}
	stored := *user
	stored.HashedPassword = "hashed:" + user.Password
	stored.Password = ""
	s.byEmail[user.Email] = &stored
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.getByEmail != nil {
		return nil, s.getByEmail
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

type fakeProfileStore struct {
	byUserID map[uuid.UUID]*domain.UserProfile
	saveErr  error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{byUserID: make(map[uuid.UUID]*domain.UserProfile)}
}

func (s *fakeProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	p, ok := s.byUserID[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return p, nil
}

func (s *fakeProfileStore) Save(ctx context.Context, profile *domain.UserProfile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	stored := *profile
	s.byUserID[profile.UserID] = &stored
	return nil
}

func (s *fakeProfileStore) WithTx(tx *sql.Tx) store.ProfileStore { return s }

type stubJWT struct {
	claims      *auth.Claims
	validateErr error
}

func (s *stubJWT) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "access-" + userID.String(), nil
}

func (s *stubJWT) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

func (s *stubJWT) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "refresh-" + userID.String(), nil
}

func (s *stubJWT) ValidateRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

type stubVerifier struct{}

func (stubVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func newTestAuthHandler(users *fakeUserStore, profiles *fakeProfileStore, jwt auth.JWTService) *AuthHandler {
	return NewAuthHandler(nil, users, profiles, jwt, stubVerifier{}, config.AuthConfig{
		JWTSecret:                   "test-secret-thirty-two-characters!!",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegister(t *testing.T) {
	t.Run("creates user with default profile", func(t *testing.T) {
		users := newFakeUserStore()
		profiles := newFakeProfileStore()
		handler := newTestAuthHandler(users, profiles, &stubJWT{})

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "anna@example.com", "password": "correct horse battery"}`)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEqual(t, uuid.Nil, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		profile, err := profiles.GetByUserID(context.Background(), resp.UserID)
		require.NoError(t, err)
		assert.Equal(t, domain.TongueGerman, profile.MotherTongue)
		assert.Equal(t, domain.DirectionGermanToRussian, profile.LearningDirection)
		assert.Equal(t, "A1", profile.LearningLevel)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := newFakeUserStore()
		handler := newTestAuthHandler(users, newFakeProfileStore(), &stubJWT{})

		body := `{"email": "anna@example.com", "password": "correct horse battery"}`
		require.Equal(t, http.StatusCreated, postJSON(t, handler.Register, "/api/auth/register", body).Code)

		rr := postJSON(t, handler.Register, "/api/auth/register", body)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		handler := newTestAuthHandler(newFakeUserStore(), newFakeProfileStore(), &stubJWT{})

		rr := postJSON(t, handler.Register, "/api/auth/register", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		handler := newTestAuthHandler(newFakeUserStore(), newFakeProfileStore(), &stubJWT{})

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "anna@example.com", "password": "short"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("profile failure fails registration", func(t *testing.T) {
		profiles := newFakeProfileStore()
		profiles.saveErr = errors.New("disk full")
		handler := newTestAuthHandler(newFakeUserStore(), profiles, &stubJWT{})

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "anna@example.com", "password": "correct horse battery"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "disk full")
	})
}

func TestLogin(t *testing.T) {
	registered := func(t *testing.T) (*fakeUserStore, *AuthHandler) {
		t.Helper()
		users := newFakeUserStore()
		handler := newTestAuthHandler(users, newFakeProfileStore(), &stubJWT{})
		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"email": "anna@example.com", "password": "correct horse battery"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
		return users, handler
	}

	t.Run("valid credentials", func(t *testing.T) {
		_, handler := registered(t)

		rr := postJSON(t, handler.Login, "/api/auth/login",
			`{"email": "anna@example.com", "password": "correct horse battery"}`)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, handler := registered(t)

		rr := postJSON(t, handler.Login, "/api/auth/login",
			`{"email": "anna@example.com", "password": "wrong wrong wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, handler := registered(t)

		rr := postJSON(t, handler.Login, "/api/auth/login",
			`{"email": "nobody@example.com", "password": "correct horse battery"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("valid refresh token", func(t *testing.T) {
		userID := uuid.New()
		jwt := &stubJWT{claims: &auth.Claims{UserID: userID, TokenType: "refresh"}}
		handler := newTestAuthHandler(newFakeUserStore(), newFakeProfileStore(), jwt)

		rr := postJSON(t, handler.RefreshToken, "/api/auth/refresh",
			`{"refresh_token": "some-refresh-token"}`)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp RefreshTokenResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "access-"+userID.String(), resp.AccessToken)
		assert.Equal(t, "refresh-"+userID.String(), resp.RefreshToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		jwt := &stubJWT{validateErr: auth.ErrExpiredRefreshToken}
		handler := newTestAuthHandler(newFakeUserStore(), newFakeProfileStore(), jwt)

		rr := postJSON(t, handler.RefreshToken, "/api/auth/refresh",
			`{"refresh_token": "stale"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing token in body", func(t *testing.T) {
		handler := newTestAuthHandler(newFakeUserStore(), newFakeProfileStore(), &stubJWT{})

		rr := postJSON(t, handler.RefreshToken, "/api/auth/refresh", `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
