package auth_test

import (
	"testing"

	"github.com/pedalmate/pedalmate/internal/auth"
	"github.com/pedalmate/pedalmate/internal/user"
)

// newTestService creates an auth service backed by in-memory repositories.
func newTestService(t *testing.T) (*auth.Service, *user.Service) {
	t.Helper()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.pedalmate.nl",
		Audience:   "pedalmate-api",
	})

	users := user.NewService(user.ServiceConfig{
		Repository: user.NewInMemoryRepository(),
	})

	svc := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		Users:       users,
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
	})

	return svc, users
}
