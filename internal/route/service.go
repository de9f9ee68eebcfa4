package route

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// Validation constants.
const (
	MaxNameLength = 80
	MinPoints     = 2
	dayClock      = 24 * time.Hour
)

// Events receives notifications about route mutations that other parts of
// the system react to, such as cascade-canceling open buddy requests.
type Events interface {
	RouteDeleted(ctx context.Context, routeID, ownerID string) error
}

// NoopEvents discards all events.
type NoopEvents struct{}

// RouteDeleted implements Events.
func (NoopEvents) RouteDeleted(context.Context, string, string) error { return nil }

// ServiceConfig holds configuration for the route service.
type ServiceConfig struct {
	Repository Repository
	Events     Events
	Logger     zerolog.Logger
}

// Service provides route operations.
type Service struct {
	repo   Repository
	events Events
	logger zerolog.Logger
}

// NewService creates a new route service.
func NewService(cfg ServiceConfig) *Service {
	events := cfg.Events
	if events == nil {
		events = NoopEvents{}
	}
	return &Service{
		repo:   cfg.Repository,
		events: events,
		logger: cfg.Logger,
	}
}

// CreateInput contains the fields needed to create a route.
type CreateInput struct {
	Name      string
	Polyline  geo.Polyline
	Departure time.Duration
	Arrival   time.Duration
	Days      DaySet
}

// UpdateInput contains the optional fields an owner may change on a route.
type UpdateInput struct {
	Name      *string
	Polyline  geo.Polyline
	Departure *time.Duration
	Arrival   *time.Duration
	Days      *DaySet
}

// Create creates a new route owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Route, error) {
	if fieldErrors := validateRoute(input.Name, input.Polyline, input.Departure, input.Arrival); len(fieldErrors) > 0 {
		return nil, &models.ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	rt := &Route{
		ID:        "rte_" + uuid.New().String()[:22],
		OwnerID:   ownerID,
		Name:      input.Name,
		Polyline:  input.Polyline,
		Departure: input.Departure,
		Arrival:   input.Arrival,
		Days:      input.Days,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, rt); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("route_id", rt.ID).
		Str("owner_id", ownerID).
		Float64("length_m", rt.Length()).
		Msg("route created")

	return rt, nil
}

// Get retrieves a route by ID for its owner.
func (s *Service) Get(ctx context.Context, ownerID, routeID string) (*Route, error) {
	return s.repo.GetByOwnerAndID(ctx, ownerID, routeID)
}

// List retrieves all routes owned by a user.
func (s *Service) List(ctx context.Context, ownerID string, limit int) (*ListResult, error) {
	return s.repo.ListByOwner(ctx, ownerID, ListOptions{Limit: limit})
}

// Update applies the owner's changes to an existing route. Only the owner
// may mutate a route, and only the fields exposed on UpdateInput.
func (s *Service) Update(ctx context.Context, ownerID, routeID string, input UpdateInput) (*Route, error) {
	rt, err := s.repo.GetByOwnerAndID(ctx, ownerID, routeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		rt.Name = *input.Name
	}
	if input.Polyline != nil {
		rt.Polyline = input.Polyline
	}
	if input.Departure != nil {
		rt.Departure = *input.Departure
	}
	if input.Arrival != nil {
		rt.Arrival = *input.Arrival
	}
	if input.Days != nil {
		rt.Days = *input.Days
	}

	if fieldErrors := validateRoute(rt.Name, rt.Polyline, rt.Departure, rt.Arrival); len(fieldErrors) > 0 {
		return nil, &models.ValidationError{Errors: fieldErrors}
	}

	rt.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}

	return rt, nil
}

// Delete deletes a route owned by a user and announces the deletion so
// dependent buddy requests can be cascade-canceled.
func (s *Service) Delete(ctx context.Context, ownerID, routeID string) error {
	if _, err := s.repo.GetByOwnerAndID(ctx, ownerID, routeID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, routeID); err != nil {
		return err
	}

	if err := s.events.RouteDeleted(ctx, routeID, ownerID); err != nil {
		s.logger.Error().Err(err).
			Str("route_id", routeID).
			Msg("failed to publish route deletion event")
	}

	return nil
}

// DeleteByOwner deletes every route owned by a user, announcing each
// deletion. Used when the owning user account is deleted.
func (s *Service) DeleteByOwner(ctx context.Context, ownerID string) error {
	ids, err := s.repo.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, id := range ids {
		if err := s.events.RouteDeleted(ctx, id, ownerID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// validateRoute validates the invariants every stored route must satisfy.
// Arrival strictly after departure is enforced here so the matcher never
// sees a route with a zero or negative journey duration.
func validateRoute(name string, pl geo.Polyline, departure, arrival time.Duration) []models.FieldError {
	var errs []models.FieldError

	if name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "is required"})
	} else if len(name) > MaxNameLength {
		errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 80 characters"})
	}

	if len(pl) < MinPoints {
		errs = append(errs, models.FieldError{Field: "polyline", Message: "must contain at least 2 points"})
	}
	for _, p := range pl {
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			errs = append(errs, models.FieldError{Field: "polyline", Message: "contains out-of-range coordinates"})
			break
		}
	}

	if departure < 0 || departure >= dayClock {
		errs = append(errs, models.FieldError{Field: "departure", Message: "must be a clock time within the day"})
	}
	if arrival < 0 || arrival >= dayClock {
		errs = append(errs, models.FieldError{Field: "arrival", Message: "must be a clock time within the day"})
	}
	if arrival <= departure {
		errs = append(errs, models.FieldError{Field: "arrival", Message: "must be strictly after departure"})
	}

	return errs
}
