package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalmate/pedalmate/internal/api/middleware"
	"github.com/pedalmate/pedalmate/internal/auth"
	"github.com/pedalmate/pedalmate/internal/user"
)

func TestAuth_MissingAuthorizationHeader(t *testing.T) {
	authService := createTestAuthService(t)
	authMiddleware := middleware.Auth(authService)

	handler := authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestAuth_InvalidAuthorizationFormat(t *testing.T) {
	authService := createTestAuthService(t)
	authMiddleware := middleware.Auth(authService)

	handler := authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "token123"},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase no space", "bearer token123"},
		{"empty bearer", "Bearer "},
		{"just bearer", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	authService := createTestAuthService(t)
	authMiddleware := middleware.Auth(authService)

	handler := authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer invalid.jwt.token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Invalid tokens are detected and reported as such
	assert.Contains(t, rec.Body.String(), "invalid access token")
}

func TestAuth_ValidToken(t *testing.T) {
	authService := createTestAuthService(t)
	authMiddleware := middleware.Auth(authService)

	jwtService := testJWTService()
	token, _, err := jwtService.GenerateAccessToken("usr_testuser123")
	require.NoError(t, err)

	var capturedUserID string
	handler := authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID = middleware.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr_testuser123", capturedUserID)
}

func TestAuth_CaseInsensitiveBearer(t *testing.T) {
	authService := createTestAuthService(t)
	authMiddleware := middleware.Auth(authService)

	jwtService := testJWTService()
	token, _, err := jwtService.GenerateAccessToken("usr_testuser123")
	require.NoError(t, err)

	handler := authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Test with different case variations
	cases := []string{"Bearer ", "bearer ", "BEARER "}
	for _, prefix := range cases {
		t.Run(prefix, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			req.Header.Set("Authorization", prefix+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestGetUserID_NoAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	userID := middleware.GetUserID(req.Context())
	assert.Empty(t, userID)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.pedalmate.nl",
		Audience:   "pedalmate-api",
	})
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T) *auth.Service {
	t.Helper()

	users := user.NewService(user.ServiceConfig{
		Repository: user.NewInMemoryRepository(),
	})

	return auth.NewService(auth.ServiceConfig{
		JWTService:  testJWTService(),
		Users:       users,
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
	})
}
