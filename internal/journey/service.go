package journey

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// Validation constants.
const (
	MaxLabelLength = 80
	MaxNotesLength = 500
)

// ServiceConfig holds configuration for the journey service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
}

// Service provides journey operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new journey service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// List retrieves all journeys for a user.
func (s *Service) List(ctx context.Context, userID string, limit int) (*models.PagedJourneys, error) {
	result, err := s.repo.List(ctx, userID, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Journey, 0, len(result.Items))
	for _, j := range result.Items {
		items = append(items, toAPIJourney(j))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedJourneys{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a journey by ID for a user.
func (s *Service) Get(ctx context.Context, userID, journeyID string) (*models.Journey, error) {
	j, err := s.repo.GetByUserAndID(ctx, userID, journeyID)
	if err != nil {
		return nil, err
	}

	result := toAPIJourney(j)
	return &result, nil
}

// Create creates a new journey for a user.
func (s *Service) Create(ctx context.Context, userID string, input *models.JourneyCreateRequest) (*models.Journey, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &models.ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	j := &Journey{
		ID:           "jny_" + uuid.New().String()[:22],
		UserID:       userID,
		Label:        input.Label,
		Start:        geo.Point{Lat: input.Start.Lat, Lon: input.Start.Lon},
		End:          geo.Point{Lat: input.End.Lat, Lon: input.End.Lon},
		RadiusMeters: input.RadiusMeters,
		Days:         route.DaySetFromISO(input.DaysOfWeek),
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("journey_id", j.ID).
		Str("user_id", userID).
		Msg("journey created")

	result := toAPIJourney(j)
	return &result, nil
}

// Update updates an existing journey for a user.
func (s *Service) Update(ctx context.Context, userID, journeyID string, input *models.JourneyUpdateRequest) (*models.Journey, error) {
	j, err := s.repo.GetByUserAndID(ctx, userID, journeyID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &models.ValidationError{Errors: fieldErrors}
	}

	if input.Label != nil {
		j.Label = *input.Label
	}
	if input.Start != nil {
		j.Start = geo.Point{Lat: input.Start.Lat, Lon: input.Start.Lon}
	}
	if input.End != nil {
		j.End = geo.Point{Lat: input.End.Lat, Lon: input.End.Lon}
	}
	if input.RadiusMeters != nil {
		j.RadiusMeters = *input.RadiusMeters
	}
	if input.DaysOfWeek != nil {
		j.Days = route.DaySetFromISO(input.DaysOfWeek)
	}
	if input.Notes != nil {
		j.Notes = input.Notes
	}
	j.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, j); err != nil {
		return nil, err
	}

	result := toAPIJourney(j)
	return &result, nil
}

// Delete deletes a journey for a user.
func (s *Service) Delete(ctx context.Context, userID, journeyID string) error {
	if _, err := s.repo.GetByUserAndID(ctx, userID, journeyID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, journeyID)
}

// DeleteByUser deletes every journey owned by a user. Used when the owning
// user account is deleted.
func (s *Service) DeleteByUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}

// Query retrieves a journey and turns it into a match query, so riders can
// re-run a saved search directly.
func (s *Service) Query(ctx context.Context, userID, journeyID string) (match.Query, error) {
	j, err := s.repo.GetByUserAndID(ctx, userID, journeyID)
	if err != nil {
		return match.Query{}, err
	}

	return match.Query{
		Start:        j.Start,
		End:          j.End,
		RadiusMeters: j.RadiusMeters,
		Days:         j.Days,
	}, nil
}

// validateCreateInput validates the create journey input.
func validateCreateInput(input *models.JourneyCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label == "" {
		errs = append(errs, models.FieldError{Field: "label", Message: "is required"})
	} else if len(input.Label) > MaxLabelLength {
		errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
	}

	errs = append(errs, validatePoint(input.Start, "start")...)
	errs = append(errs, validatePoint(input.End, "end")...)
	errs = append(errs, validateRadius(input.RadiusMeters)...)
	errs = append(errs, validateDaysOfWeek(input.DaysOfWeek, true)...)

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateUpdateInput validates the update journey input.
func validateUpdateInput(input *models.JourneyUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label != nil {
		if *input.Label == "" {
			errs = append(errs, models.FieldError{Field: "label", Message: "cannot be empty"})
		} else if len(*input.Label) > MaxLabelLength {
			errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
		}
	}

	if input.Start != nil {
		errs = append(errs, validatePoint(*input.Start, "start")...)
	}
	if input.End != nil {
		errs = append(errs, validatePoint(*input.End, "end")...)
	}
	if input.RadiusMeters != nil {
		errs = append(errs, validateRadius(*input.RadiusMeters)...)
	}
	if input.DaysOfWeek != nil {
		errs = append(errs, validateDaysOfWeek(input.DaysOfWeek, false)...)
	}

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateRadius checks the journey search radius against the bounds the
// matcher enforces, so a saved journey always yields a valid query.
func validateRadius(radius float64) []models.FieldError {
	if radius < match.MinRadiusMeters || radius > match.MaxRadiusMeters {
		return []models.FieldError{{Field: "radiusMeters", Message: "must be between 1 and 2000"}}
	}
	return nil
}

// validateDaysOfWeek validates a days of week array.
func validateDaysOfWeek(days []int, required bool) []models.FieldError {
	if len(days) == 0 {
		if required {
			return []models.FieldError{{Field: "daysOfWeek", Message: "is required"}}
		}
		return []models.FieldError{{Field: "daysOfWeek", Message: "cannot be empty"}}
	}
	for _, day := range days {
		if day < 1 || day > 7 {
			return []models.FieldError{{Field: "daysOfWeek", Message: "must contain values between 1 and 7"}}
		}
	}
	return nil
}

// validatePoint validates a coordinate pair.
func validatePoint(p models.Point, prefix string) []models.FieldError {
	var errs []models.FieldError

	if p.Lat < -90 || p.Lat > 90 {
		errs = append(errs, models.FieldError{
			Field:   prefix + ".lat",
			Message: "must be between -90 and 90",
		})
	}

	if p.Lon < -180 || p.Lon > 180 {
		errs = append(errs, models.FieldError{
			Field:   prefix + ".lon",
			Message: "must be between -180 and 180",
		})
	}

	return errs
}

// toAPIJourney converts a domain Journey to an API Journey.
func toAPIJourney(j *Journey) models.Journey {
	return models.Journey{
		ID:           j.ID,
		Label:        j.Label,
		Start:        models.Point{Lat: j.Start.Lat, Lon: j.Start.Lon},
		End:          models.Point{Lat: j.End.Lat, Lon: j.End.Lon},
		RadiusMeters: j.RadiusMeters,
		DaysOfWeek:   j.Days.ISO(),
		Notes:        j.Notes,
		CreatedAt:    models.Timestamp(j.CreatedAt),
		UpdatedAt:    models.Timestamp(j.UpdatedAt),
	}
}
