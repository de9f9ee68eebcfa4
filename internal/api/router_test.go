package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalmate/pedalmate/internal/api"
	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/auth"
	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/journey"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/reputation"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/internal/user"
)

// testEnv bundles a fully wired router over in-memory repositories.
type testEnv struct {
	router http.Handler
	users  *user.Service
	jwt    *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.New(io.Discard)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.pedalmate.nl",
		Audience:   "pedalmate-api",
	})

	userRepo := user.NewInMemoryRepository()
	users := user.NewService(user.ServiceConfig{Repository: userRepo, Logger: logger})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		Users:       users,
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
	})

	routeRepo := route.NewInMemoryRepository()
	routes := route.NewService(route.ServiceConfig{Repository: routeRepo, Logger: logger})

	index := match.NewIndex()
	matches := match.NewService(match.ServiceConfig{
		Repository: routeRepo,
		Index:      index,
		Logger:     logger,
	})

	journeys := journey.NewService(journey.ServiceConfig{
		Repository: journey.NewInMemoryRepository(),
		Logger:     logger,
	})

	buddyRepo := buddy.NewInMemoryRepository()
	buddies := buddy.NewService(buddy.ServiceConfig{Repository: buddyRepo, Logger: logger})

	reviews := reputation.NewService(reputation.ServiceConfig{
		Store:  reputation.NewMemoryStore(buddyRepo, userRepo),
		Logger: logger,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:           "test",
		BuildTime:         "2026-01-01T00:00:00Z",
		Logger:            logger,
		AuthService:       authService,
		UserService:       users,
		RouteService:      routes,
		MatchService:      matches,
		MatchIndex:        index,
		JourneyService:    journeys,
		BuddyService:      buddies,
		ReputationService: reviews,
	})

	return &testEnv{router: router, users: users, jwt: jwtService}
}

// tokenFor provisions a user and returns a bearer token for them.
func (e *testEnv) tokenFor(t *testing.T, userID, displayName string) string {
	t.Helper()
	_, err := e.users.CreateUser(context.Background(), userID, displayName)
	require.NoError(t, err)
	token, _, err := e.jwt.GenerateAccessToken(userID)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/ops/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/ops/ready", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, "usr_ops", "Ops Rider")

	w := env.do(t, http.MethodGet, "/v1/ops/status", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.NotEmpty(t, status.Subsystems)
}

func TestRouter_Register(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"displayName": "New Rider",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Contains(t, tokens.UserID, "usr_")
}

func TestRouter_GetMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, "usr_me", "Me Rider")

	w := env.do(t, http.MethodGet, "/v1/me", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var me models.Me
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "usr_me", me.UserID)
	assert.Equal(t, "Me Rider", me.DisplayName)
	assert.Equal(t, "nl-NL", me.Locale)
}

func TestRouter_GetMe_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_UpdateMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, "usr_me", "Me Rider")

	w := env.do(t, http.MethodPatch, "/v1/me", token, map[string]string{
		"displayName": "Renamed Rider",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var me models.Me
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "Renamed Rider", me.DisplayName)
}

func TestRouter_CreateAndSearchRoute(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.tokenFor(t, "usr_owner", "Experienced Rider")
	seekerToken := env.tokenFor(t, "usr_seeker", "New Rider")

	// Owner records a west-to-east route across Amsterdam.
	createBody := models.RouteCreateRequest{
		Name: "Morning commute",
		Points: []models.Point{
			{Lat: 52.37, Lon: 4.85},
			{Lat: 52.37, Lon: 4.90},
			{Lat: 52.37, Lon: 4.95},
		},
		DepartureLocal: "08:00",
		ArrivalLocal:   "08:40",
		DaysOfWeek:     []int{1, 2, 3, 4, 5, 6, 7},
	}
	w := env.do(t, http.MethodPost, "/v1/me/routes", ownerToken, createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Location"))

	var created models.Route
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Contains(t, created.ID, "rte_")
	assert.Equal(t, "08:00", created.DepartureLocal)
	assert.NotZero(t, created.LengthMeters)

	// Seeker searches along the route.
	searchBody := models.MatchSearchRequest{
		Start:        models.Point{Lat: 52.3701, Lon: 4.87},
		End:          models.Point{Lat: 52.3701, Lon: 4.93},
		RadiusMeters: 500,
	}
	w = env.do(t, http.MethodPost, "/v1/matches:search", seekerToken, searchBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var searchResp models.MatchSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &searchResp))
	require.Len(t, searchResp.Results, 1)
	assert.Equal(t, created.ID, searchResp.Results[0].RouteID)
	assert.Equal(t, "usr_owner", searchResp.Results[0].OwnerID)
}

func TestRouter_MatchSearch_RadiusValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, "usr_seeker", "New Rider")

	searchBody := models.MatchSearchRequest{
		Start:        models.Point{Lat: 52.37, Lon: 4.87},
		End:          models.Point{Lat: 52.37, Lon: 4.93},
		RadiusMeters: 5000,
	}
	w := env.do(t, http.MethodPost, "/v1/matches:search", token, searchBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_JourneyLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, "usr_me", "Me Rider")

	createBody := models.JourneyCreateRequest{
		Label:        "To work",
		Start:        models.Point{Lat: 52.37, Lon: 4.87},
		End:          models.Point{Lat: 52.37, Lon: 4.93},
		RadiusMeters: 500,
		DaysOfWeek:   []int{1, 2, 3, 4, 5},
	}
	w := env.do(t, http.MethodPost, "/v1/me/journeys", token, createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Journey
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Contains(t, created.ID, "jny_")

	// Saved journey can be re-run as a search directly.
	w = env.do(t, http.MethodPost, "/v1/me/journeys/"+created.ID+"/search", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodDelete, "/v1/me/journeys/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/v1/me/journeys/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_BuddyRequestFlow(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.tokenFor(t, "usr_owner", "Experienced Rider")
	seekerToken := env.tokenFor(t, "usr_seeker", "New Rider")

	// Record a route and find a match.
	createBody := models.RouteCreateRequest{
		Name: "Morning commute",
		Points: []models.Point{
			{Lat: 52.37, Lon: 4.85},
			{Lat: 52.37, Lon: 4.95},
		},
		DepartureLocal: "08:00",
		ArrivalLocal:   "08:40",
		DaysOfWeek:     []int{1, 2, 3, 4, 5, 6, 7},
	}
	w := env.do(t, http.MethodPost, "/v1/me/routes", ownerToken, createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	searchBody := models.MatchSearchRequest{
		Start:        models.Point{Lat: 52.3701, Lon: 4.87},
		End:          models.Point{Lat: 52.3701, Lon: 4.93},
		RadiusMeters: 500,
	}
	w = env.do(t, http.MethodPost, "/v1/matches:search", seekerToken, searchBody)
	require.Equal(t, http.StatusOK, w.Code)

	var searchResp models.MatchSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &searchResp))
	require.NotEmpty(t, searchResp.Results)

	// Seeker turns the match into a buddy request.
	w = env.do(t, http.MethodPost, "/v1/requests", seekerToken, models.BuddyRequestCreateRequest{
		Result: searchResp.Results[0],
		Points: []models.Point{
			searchResp.Results[0].MeetingPoint,
			searchResp.Results[0].DivorcePoint,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var request models.BuddyRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &request))
	assert.Contains(t, request.ID, "brq_")
	assert.Equal(t, "pending", request.Status)

	// The route owner sees it among received requests and accepts.
	w = env.do(t, http.MethodGet, "/v1/me/requests/received", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var received models.PagedBuddyRequests
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &received))
	require.Len(t, received.Items, 1)

	w = env.do(t, http.MethodPost, "/v1/requests/"+request.ID+"/status", ownerToken, models.BuddyStatusUpdateRequest{
		Status: "accepted",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// After the ride the seeker reviews it, completing the request.
	w = env.do(t, http.MethodPost, "/v1/requests/"+request.ID+"/review", seekerToken, models.BuddyReviewRequest{
		Score: 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reviewed models.BuddyRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviewed))
	assert.Equal(t, "completed", reviewed.Status)
	assert.Equal(t, 1, reviewed.Review)

	// The owner's reputation is visible on their public profile.
	w = env.do(t, http.MethodGet, "/v1/users/usr_owner", seekerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.PublicProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, 1, profile.Reputation.UsersHelped)
	assert.Equal(t, 1.0, profile.Reputation.Rating)
}

func TestRouter_BuddyRequest_StrangerGetsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.tokenFor(t, "usr_owner", "Experienced Rider")
	seekerToken := env.tokenFor(t, "usr_seeker", "New Rider")
	strangerToken := env.tokenFor(t, "usr_stranger", "Stranger")

	w := env.do(t, http.MethodPost, "/v1/me/routes", ownerToken, models.RouteCreateRequest{
		Name: "Morning commute",
		Points: []models.Point{
			{Lat: 52.37, Lon: 4.85},
			{Lat: 52.37, Lon: 4.95},
		},
		DepartureLocal: "08:00",
		ArrivalLocal:   "08:40",
		DaysOfWeek:     []int{1, 2, 3, 4, 5, 6, 7},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/v1/matches:search", seekerToken, models.MatchSearchRequest{
		Start:        models.Point{Lat: 52.3701, Lon: 4.87},
		End:          models.Point{Lat: 52.3701, Lon: 4.93},
		RadiusMeters: 500,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var searchResp models.MatchSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &searchResp))
	require.NotEmpty(t, searchResp.Results)

	w = env.do(t, http.MethodPost, "/v1/requests", seekerToken, models.BuddyRequestCreateRequest{
		Result: searchResp.Results[0],
		Points: []models.Point{
			searchResp.Results[0].MeetingPoint,
			searchResp.Results[0].DivorcePoint,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var request models.BuddyRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &request))

	// Participants can read it; a third party sees not-found, not forbidden.
	w = env.do(t, http.MethodGet, "/v1/requests/"+request.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/v1/requests/"+request.ID, strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/nonexistent", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
