// Package api provides the HTTP API for PedalMate.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/api/handler"
	"github.com/pedalmate/pedalmate/internal/api/middleware"
	"github.com/pedalmate/pedalmate/internal/auth"
	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/journey"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/reputation"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	BuildTime         string
	Logger            zerolog.Logger
	ServiceName       string
	Metrics           *middleware.Metrics
	DB                handler.Pinger
	AuthService       *auth.Service
	UserService       *user.Service
	RouteService      *route.Service
	MatchService      *match.Service
	MatchIndex        *match.Index
	JourneyService    *journey.Service
	BuddyService      *buddy.Service
	ReputationService *reputation.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "pedalmate-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	meHandler := handler.NewMeHandler(cfg.UserService)
	routeHandler := handler.NewRouteHandler(cfg.RouteService, cfg.MatchIndex)
	matchHandler := handler.NewMatchHandler(cfg.MatchService, cfg.JourneyService)
	journeyHandler := handler.NewJourneyHandler(cfg.JourneyService)
	buddyHandler := handler.NewBuddyHandler(cfg.BuddyService, cfg.ReputationService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", meHandler.GetMe)
			r.Patch("/", meHandler.UpdateMe)
			r.Delete("/", meHandler.DeleteMe)

			// Routes the caller rides and offers to share
			r.Route("/routes", func(r chi.Router) {
				r.Get("/", routeHandler.ListRoutes)
				r.Post("/", routeHandler.CreateRoute)
				r.Route("/{routeId}", func(r chi.Router) {
					r.Get("/", routeHandler.GetRoute)
					r.Patch("/", routeHandler.UpdateRoute)
					r.Delete("/", routeHandler.DeleteRoute)
				})
			})

			// Saved journeys the caller searches matches for
			r.Route("/journeys", func(r chi.Router) {
				r.Get("/", journeyHandler.ListJourneys)
				r.Post("/", journeyHandler.CreateJourney)
				r.Route("/{journeyId}", func(r chi.Router) {
					r.Get("/", journeyHandler.GetJourney)
					r.Patch("/", journeyHandler.UpdateJourney)
					r.Delete("/", journeyHandler.DeleteJourney)
					r.With(expensiveRateLimit).Post("/search", matchHandler.SearchJourney)
				})
			})

			// Buddy requests by direction
			r.Route("/requests", func(r chi.Router) {
				r.Get("/sent", buddyHandler.ListSent)
				r.Get("/received", buddyHandler.ListReceived)
			})
		})

		// Match search - expensive compute, strict rate limiting
		r.With(authMiddleware, expensiveRateLimit).Post("/matches:search", matchHandler.Search)

		// Buddy request lifecycle (authenticated)
		r.Route("/requests", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Post("/", buddyHandler.CreateRequest)
			r.Route("/{requestId}", func(r chi.Router) {
				r.Get("/", buddyHandler.GetRequest)
				r.Patch("/", buddyHandler.UpdateDetails)
				r.Post("/status", buddyHandler.UpdateStatus)
				r.Post("/review", buddyHandler.Review)
			})
		})

		// Public rider profiles - standard rate limiting
		r.With(authMiddleware, standardRateLimit).Get("/users/{userId}", meHandler.GetPublicProfile)
	})

	return r
}
