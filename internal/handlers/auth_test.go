package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/dto"
	"ECOTRACE_BACK-END/internal/middleware"
	"ECOTRACE_BACK-END/internal/models"
	"ECOTRACE_BACK-END/internal/security"
	"ECOTRACE_BACK-END/internal/services"
	"ECOTRACE_BACK-END/internal/store"
	"ECOTRACE_BACK-END/internal/token"
)

// memoryUserStore backs handler tests with the real services on top
type memoryUserStore struct {
	users map[string]*models.User
}

func (m *memoryUserStore) CreateUser(ctx context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.Email != nil && user.Email != nil && *existing.Email == *user.Email {
			return store.ErrDuplicateKey
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, store.ErrNotFound
}

func (m *memoryUserStore) GetUserByTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	for _, user := range m.users {
		if user.TokenHash == tokenHash {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memoryUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email != nil && *user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memoryUserStore) RotateUserToken(ctx context.Context, id, tokenHash string, lastActive time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.TokenHash = tokenHash
	user.LastActive = lastActive
	return nil
}

func (m *memoryUserStore) TouchLastActive(ctx context.Context, id string, lastActive time.Time) error {
	if user, ok := m.users[id]; ok {
		user.LastActive = lastActive
	}
	return nil
}

func newTestAuthHandler() *AuthHandler {
	codec := token.NewCodec("test-secret-key")
	users := &memoryUserStore{users: map[string]*models.User{}}
	logger := zap.NewNop()
	identity := services.NewIdentityService(codec, users, logger)
	auth := services.NewAuthService(codec, security.NewPasswordHasher(), users, logger)
	return NewAuthHandler(auth, identity, logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) (*httptest.ResponseRecorder, dto.AuthResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	var resp dto.AuthResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRegisterEndpoint(t *testing.T) {
	h := newTestAuthHandler()

	rec, resp := postJSON(t, h.Register, "/api/auth/register",
		`{"email":"alice@example.com","password":"secret123","name":"Alice"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success, resp.Message)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.False(t, resp.User.IsAnonymous)
	require.NotNil(t, resp.User.Email)
	assert.Equal(t, "alice@example.com", *resp.User.Email)
}

func TestRegisterEndpointRejectsMissingFields(t *testing.T) {
	h := newTestAuthHandler()

	rec, _ := postJSON(t, h.Register, "/api/auth/register", `{"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = postJSON(t, h.Register, "/api/auth/register", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEndpointRejectsWrongMethod(t *testing.T) {
	h := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/register", nil)
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	h := newTestAuthHandler()

	rec, registered := postJSON(t, h.Register, "/api/auth/register",
		`{"email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, registered.Success)

	rec, resp := postJSON(t, h.Login, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success, resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.NotEqual(t, registered.Token, resp.Token)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	h := newTestAuthHandler()

	rec, resp := postJSON(t, h.Login, "/api/auth/login",
		`{"email":"nobody@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid email or password", resp.Message)
	assert.Empty(t, resp.Token)
}

func TestValidateTokenEndpoint(t *testing.T) {
	h := newTestAuthHandler()

	rec, registered := postJSON(t, h.Register, "/api/auth/register",
		`{"email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, registered.Success)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set(middleware.TokenHeader, registered.Token)
	rec = httptest.NewRecorder()
	h.ValidateToken(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.TokenValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.True(t, resp.IsAuthenticated)
	require.NotNil(t, resp.User)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set(middleware.TokenHeader, "garbage")
	rec = httptest.NewRecorder()
	h.ValidateToken(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp = dto.TokenValidationResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Nil(t, resp.User)
}

func TestValidateTokenEndpointAcceptsBearerHeader(t *testing.T) {
	h := newTestAuthHandler()

	rec, registered := postJSON(t, h.Register, "/api/auth/register",
		`{"email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, registered.Success)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	rec = httptest.NewRecorder()
	h.ValidateToken(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.TokenValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.True(t, resp.IsAuthenticated)
}
