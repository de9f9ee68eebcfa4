// Package worker provides background job processing for PedalMate.
package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/events"
	"github.com/pedalmate/pedalmate/internal/journey"
	"github.com/pedalmate/pedalmate/internal/route"
)

// Cancellation reasons stamped onto cascade-canceled requests.
const (
	ReasonRouteDeleted = "the route is no longer offered"
	ReasonUserDeleted  = "the rider's account was deleted"
)

// CascadeJob reacts to route and account deletions: active buddy requests
// touching the deleted entity are canceled, and a deleted user's routes and
// journeys are removed. Completed requests stay untouched.
type CascadeJob struct {
	buddies  *buddy.Service
	routes   *route.Service
	journeys *journey.Service
	logger   zerolog.Logger
}

// CascadeJobConfig holds configuration for the cascade job.
type CascadeJobConfig struct {
	BuddyService   *buddy.Service
	RouteService   *route.Service
	JourneyService *journey.Service
	Logger         zerolog.Logger
}

// NewCascadeJob creates a new cascade job.
func NewCascadeJob(cfg CascadeJobConfig) *CascadeJob {
	return &CascadeJob{
		buddies:  cfg.BuddyService,
		routes:   cfg.RouteService,
		journeys: cfg.JourneyService,
		logger:   cfg.Logger,
	}
}

// Handle dispatches one lifecycle event.
func (j *CascadeJob) Handle(ctx context.Context, msg events.Message) error {
	switch msg.EventType {
	case events.TypeRouteDeleted:
		return j.handleRouteDeleted(ctx, msg.RouteID)
	case events.TypeUserDeleted:
		return j.handleUserDeleted(ctx, msg.UserID)
	default:
		return fmt.Errorf("unknown event type %q", msg.EventType)
	}
}

// handleRouteDeleted cancels active requests referencing the route.
func (j *CascadeJob) handleRouteDeleted(ctx context.Context, routeID string) error {
	canceled, err := j.buddies.CascadeCancelForRoute(ctx, routeID, ReasonRouteDeleted)
	if err != nil {
		return fmt.Errorf("canceling requests for route %s: %w", routeID, err)
	}

	j.logger.Info().
		Str("route_id", routeID).
		Int("canceled", canceled).
		Msg("route deletion cascade completed")

	return nil
}

// handleUserDeleted removes the user's routes and journeys and cancels
// active requests they participated in, on either side. Deleting the
// routes publishes further route-deleted events, which cover requests from
// riders who matched against those routes.
func (j *CascadeJob) handleUserDeleted(ctx context.Context, userID string) error {
	if err := j.routes.DeleteByOwner(ctx, userID); err != nil {
		return fmt.Errorf("deleting routes for user %s: %w", userID, err)
	}

	if err := j.journeys.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("deleting journeys for user %s: %w", userID, err)
	}

	canceled, err := j.buddies.CascadeCancelForUser(ctx, userID, ReasonUserDeleted)
	if err != nil {
		return fmt.Errorf("canceling requests for user %s: %w", userID, err)
	}

	j.logger.Info().
		Str("user_id", userID).
		Int("canceled", canceled).
		Msg("user deletion cascade completed")

	return nil
}
