// Package main provides the entrypoint for the PedalMate API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/api"
	"github.com/pedalmate/pedalmate/internal/api/middleware"
	"github.com/pedalmate/pedalmate/internal/auth"
	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/database"
	"github.com/pedalmate/pedalmate/internal/events"
	"github.com/pedalmate/pedalmate/internal/geocode"
	"github.com/pedalmate/pedalmate/internal/journey"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/reputation"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/internal/telemetry"
	"github.com/pedalmate/pedalmate/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "pedalmate-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting PedalMate API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize the lifecycle event publisher. Without a project the API
	// still runs; deletions just won't cascade through the worker.
	var (
		routeEvents route.Events
		userEvents  user.Events
	)
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topic := os.Getenv("PUBSUB_TOPIC")
		if topic == "" {
			topic = "lifecycle-events"
		}
		publisher, pubErr := events.NewPublisher(ctx, events.PublisherConfig{
			ProjectID: projectID,
			TopicName: topic,
			Logger:    log,
		})
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to create event publisher")
		}
		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close event publisher")
			}
		}()
		routeEvents = publisher
		userEvents = publisher
		log.Info().Str("topic", topic).Msg("event publisher initialized")
	} else {
		routeEvents = route.NoopEvents{}
		userEvents = user.NoopEvents{}
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - deletion cascades disabled")
	}

	// Initialize user service
	userService := user.NewService(user.ServiceConfig{
		Repository: user.NewPostgresRepository(pool),
		Events:     userEvents,
		Logger:     log,
	})
	log.Info().Msg("user service initialized")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.pedalmate.nl",
		Audience:   "pedalmate-api",
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		Users:       userService,
		RefreshRepo: auth.NewPostgresRefreshTokenRepository(pool),
	})
	log.Info().Msg("auth service initialized")

	// Initialize route service and the spatial index, warmed from storage
	routeRepo := route.NewPostgresRepository(pool)
	routeService := route.NewService(route.ServiceConfig{
		Repository: routeRepo,
		Events:     routeEvents,
		Logger:     log,
	})

	matchIndex := match.NewIndex()
	storedRoutes, err := routeRepo.ListAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load routes for the spatial index")
	}
	for _, rt := range storedRoutes {
		matchIndex.Upsert(rt)
	}
	log.Info().Int("routes", matchIndex.Len()).Msg("spatial index warmed")

	matchService := match.NewService(match.ServiceConfig{
		Repository: routeRepo,
		Index:      matchIndex,
		Logger:     log,
	})

	// Initialize journey service
	journeyService := journey.NewService(journey.ServiceConfig{
		Repository: journey.NewPostgresRepository(pool),
		Logger:     log,
	})
	log.Info().Msg("journey service initialized")

	// Initialize buddy request service with reverse geocoding
	var namer buddy.PointNamer
	if os.Getenv("GEOCODER_DISABLED") != "true" {
		namer = geocode.NewClient(geocode.ClientConfig{
			BaseURL: os.Getenv("GEOCODER_BASE_URL"),
		})
		log.Info().Msg("geocoder initialized")
	}

	buddyService := buddy.NewService(buddy.ServiceConfig{
		Repository: buddy.NewPostgresRepository(pool),
		PointNamer: namer,
		Logger:     log,
	})

	reputationService := reputation.NewService(reputation.ServiceConfig{
		Store:  reputation.NewPostgresStore(pool),
		Logger: log,
	})
	log.Info().Msg("buddy request service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		DB:                pool,
		AuthService:       authService,
		UserService:       userService,
		RouteService:      routeService,
		MatchService:      matchService,
		MatchIndex:        matchIndex,
		JourneyService:    journeyService,
		BuddyService:      buddyService,
		ReputationService: reputationService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
