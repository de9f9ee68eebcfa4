// Package main provides the entrypoint for the PedalMate worker, which
// consumes lifecycle events and runs deletion cascades.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/database"
	"github.com/pedalmate/pedalmate/internal/events"
	"github.com/pedalmate/pedalmate/internal/journey"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "pedalmate-worker"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting PedalMate worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID == "" {
		log.Fatal().Msg("PUBSUB_PROJECT_ID is required")
	}

	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if subscription == "" {
		subscription = "lifecycle-events-worker"
	}

	topic := os.Getenv("PUBSUB_TOPIC")
	if topic == "" {
		topic = "lifecycle-events"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Route deletions performed by a user cascade must republish, so the
	// worker carries its own publisher on the same topic.
	publisher, err := events.NewPublisher(ctx, events.PublisherConfig{
		ProjectID: projectID,
		TopicName: topic,
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close event publisher")
		}
	}()

	routeService := route.NewService(route.ServiceConfig{
		Repository: route.NewPostgresRepository(pool),
		Events:     publisher,
		Logger:     log,
	})
	journeyService := journey.NewService(journey.ServiceConfig{
		Repository: journey.NewPostgresRepository(pool),
		Logger:     log,
	})
	buddyService := buddy.NewService(buddy.ServiceConfig{
		Repository: buddy.NewPostgresRepository(pool),
		Logger:     log,
	})

	cascade := worker.NewCascadeJob(worker.CascadeJobConfig{
		BuddyService:   buddyService,
		RouteService:   routeService,
		JourneyService: journeyService,
		Logger:         log,
	})

	handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        projectID,
		SubscriptionName: subscription,
		Cascade:          cascade,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub handler")
	}
	defer func() {
		if closeErr := handler.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close pubsub handler")
		}
	}()

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start health check server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Start consuming events
	go func() {
		if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("pubsub receive failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
