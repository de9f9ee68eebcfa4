package user

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/api/models"
)

// Events publishes user lifecycle events consumed by the worker.
type Events interface {
	// UserDeleted is published after a user is removed so active buddy
	// requests involving them can be canceled.
	UserDeleted(ctx context.Context, userID string)
}

// NoopEvents discards events.
type NoopEvents struct{}

// UserDeleted implements Events.
func (NoopEvents) UserDeleted(context.Context, string) {}

// ServiceConfig holds configuration for the user service.
type ServiceConfig struct {
	Repository Repository
	Events     Events
	Logger     zerolog.Logger
}

// Service provides user profile operations.
type Service struct {
	repo   Repository
	events Events
	logger zerolog.Logger
}

// NewService creates a new user service.
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

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.repo.Get(ctx, userID)
}

// UpdateInput contains the profile fields a rider may change. Reputation
// counters are off limits here; only the review flow touches those.
type UpdateInput struct {
	DisplayName *string
	Locale      *string
}

// Update updates the user's own profile fields.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (*User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := *input.DisplayName
		if name == "" || len(name) > 60 {
			return nil, &models.ValidationError{Errors: []models.FieldError{
				{Field: "displayName", Message: "must be between 1 and 60 characters"},
			}}
		}
		user.DisplayName = name
	}
	if input.Locale != nil {
		user.Locale = *input.Locale
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// CreateUser creates a new user with default settings.
// This is typically called after authentication to ensure the user exists.
func (s *Service) CreateUser(ctx context.Context, userID, displayName string) (*User, error) {
	existing, err := s.repo.Get(ctx, userID)
	if err == nil && existing != nil {
		return existing, nil
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := DefaultUser(userID)
	user.DisplayName = displayName

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("user created")

	return user, nil
}

// DeleteUser deletes a user and publishes the event that cancels their
// active buddy requests and removes their routes.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.events.UserDeleted(ctx, userID)

	s.logger.Info().Str("user_id", userID).Msg("user deleted")

	return nil
}
