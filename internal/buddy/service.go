package buddy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// PointNamer resolves a human-readable name for a coordinate. Implemented
// by the geocode client.
type PointNamer interface {
	ReverseGeocode(ctx context.Context, p geo.Point) (string, error)
}

// ServiceConfig holds configuration for the buddy request service.
type ServiceConfig struct {
	Repository Repository

	// PointNamer, when set, names the meeting and divorce points of new
	// requests. Naming is best effort; a failing geocoder never blocks
	// request creation.
	PointNamer PointNamer

	Logger zerolog.Logger
}

// Service provides buddy request operations.
type Service struct {
	repo   Repository
	namer  PointNamer
	logger zerolog.Logger
}

// NewService creates a new buddy request service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		namer:  cfg.PointNamer,
		logger: cfg.Logger,
	}
}

// CreateInput turns a match result into a buddy request.
type CreateInput struct {
	// Result is the match the rider picked.
	Result match.Result

	// InexperiencedRouteID optionally references the rider's saved journey
	// this request originated from.
	InexperiencedRouteID string

	// Route is the matched segment geometry.
	Route geo.Polyline
}

// Create creates a pending buddy request from ownerID to the matched
// route's owner.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Request, error) {
	if input.Result.OwnerID == ownerID {
		return nil, &models.ValidationError{Errors: []models.FieldError{
			{Field: "routeId", Message: "can't request to ride with yourself"},
		}}
	}
	if input.Result.RouteID == "" {
		return nil, &models.ValidationError{Errors: []models.FieldError{
			{Field: "routeId", Message: "is required"},
		}}
	}

	now := time.Now()
	req := &Request{
		ID:                   "brq_" + uuid.New().String()[:22],
		OwnerID:              ownerID,
		ExperiencedUserID:    input.Result.OwnerID,
		ExperiencedRouteID:   input.Result.RouteID,
		InexperiencedRouteID: input.InexperiencedRouteID,
		ExperiencedRouteName: input.Result.RouteName,
		MeetingPoint:         input.Result.MeetingPoint,
		DivorcePoint:         input.Result.DivorcePoint,
		MeetingTime:          input.Result.MeetingTime,
		DivorceTime:          input.Result.DivorceTime,
		Route:                input.Route,
		Length:               input.Result.MatchedLength,
		AverageSpeed:         input.Result.AverageSpeed,
		Status:               StatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	req.MeetingPointName = s.namePoint(ctx, req.MeetingPoint)
	req.DivorcePointName = s.namePoint(ctx, req.DivorcePoint)

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("request_id", req.ID).
		Str("owner_id", ownerID).
		Str("experienced_user_id", req.ExperiencedUserID).
		Msg("buddy request created")

	return req, nil
}

// namePoint resolves a point name through the configured geocoder, if any.
func (s *Service) namePoint(ctx context.Context, p geo.Point) string {
	if s.namer == nil {
		return ""
	}
	name, err := s.namer.ReverseGeocode(ctx, p)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", p.Lat).
			Float64("lon", p.Lon).
			Msg("reverse geocoding failed")
		return ""
	}
	return name
}

// Get retrieves a request for a participant. Non-participants get
// ErrRequestNotFound.
func (s *Service) Get(ctx context.Context, userID, requestID string) (*Request, error) {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, ok := req.ActorFor(userID); !ok {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

// ListSent retrieves requests the user sent as the inexperienced rider.
func (s *Service) ListSent(ctx context.Context, ownerID string) ([]*Request, error) {
	return s.repo.List(ctx, Filter{OwnerID: ownerID})
}

// ListReceived retrieves requests sent to the user's routes.
func (s *Service) ListReceived(ctx context.Context, experiencedUserID string) ([]*Request, error) {
	return s.repo.List(ctx, Filter{ExperiencedUserID: experiencedUserID})
}

// UpdateStatus applies a status transition on behalf of userID. The
// transition table decides the outcome; on any non-nil outcome the stored
// request is left untouched.
func (s *Service) UpdateStatus(ctx context.Context, userID, requestID string, requested Status, reason string) (*Request, error) {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	actor, ok := req.ActorFor(userID)
	if !ok {
		return nil, ErrRequestNotFound
	}

	if err := Transition(req.Status, requested, actor, reason); err != nil {
		return nil, err
	}

	observed := req.UpdatedAt
	req.Status = requested
	if reason != "" {
		req.Reason = reason
	}
	req.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, req, observed); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("request_id", req.ID).
		Str("status", string(requested)).
		Msg("buddy request status changed")

	return req, nil
}

// DetailsInput contains the rendezvous fields the experienced user may
// adjust before completion. Everything else on a request is immutable
// after creation.
type DetailsInput struct {
	MeetingPoint     *geo.Point
	DivorcePoint     *geo.Point
	MeetingPointName *string
	DivorcePointName *string
	MeetingTime      *time.Time
	DivorceTime      *time.Time
}

// UpdateDetails lets the experienced user adjust the rendezvous before the
// ride completes.
func (s *Service) UpdateDetails(ctx context.Context, userID, requestID string, input DetailsInput) (*Request, error) {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	actor, ok := req.ActorFor(userID)
	if !ok {
		return nil, ErrRequestNotFound
	}
	if actor != ActorExperienced {
		return nil, &ForbiddenError{Reason: "only the experienced cyclist may edit the rendezvous"}
	}
	if req.Status == StatusCompleted {
		return nil, invalidf("can't edit a completed buddy request")
	}

	observed := req.UpdatedAt
	if input.MeetingPoint != nil {
		req.MeetingPoint = *input.MeetingPoint
	}
	if input.DivorcePoint != nil {
		req.DivorcePoint = *input.DivorcePoint
	}
	if input.MeetingPointName != nil {
		req.MeetingPointName = *input.MeetingPointName
	}
	if input.DivorcePointName != nil {
		req.DivorcePointName = *input.DivorcePointName
	}
	if input.MeetingTime != nil {
		req.MeetingTime = *input.MeetingTime
	}
	if input.DivorceTime != nil {
		req.DivorceTime = *input.DivorceTime
	}
	req.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, req, observed); err != nil {
		return nil, err
	}

	return req, nil
}

// CascadeCancel cancels every active request touched by a deleted route or
// user, with an auto-generated reason. Completed requests are immutable
// and deliberately skipped. Returns how many requests were canceled.
func (s *Service) CascadeCancel(ctx context.Context, requests []*Request, reason string) int {
	canceled := 0
	for _, req := range requests {
		observed := req.UpdatedAt
		req.Status = StatusCanceled
		req.Reason = reason
		req.UpdatedAt = time.Now()

		if err := s.repo.Update(ctx, req, observed); err != nil {
			s.logger.Error().Err(err).
				Str("request_id", req.ID).
				Msg("cascade cancel failed for request")
			continue
		}
		canceled++
	}
	return canceled
}

// CascadeCancelForRoute cancels active requests referencing a deleted route.
func (s *Service) CascadeCancelForRoute(ctx context.Context, routeID, reason string) (int, error) {
	requests, err := s.repo.ListActiveByRoute(ctx, routeID)
	if err != nil {
		return 0, err
	}
	return s.CascadeCancel(ctx, requests, reason), nil
}

// CascadeCancelForUser cancels active requests a deleted user participated
// in, on either side.
func (s *Service) CascadeCancelForUser(ctx context.Context, userID, reason string) (int, error) {
	requests, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.CascadeCancel(ctx, requests, reason), nil
}
