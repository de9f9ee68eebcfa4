package reputation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/user"
)

// ServiceConfig holds configuration for the reputation service.
type ServiceConfig struct {
	Store  Store
	Logger zerolog.Logger
}

// Service provides ride review operations.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a new reputation service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

// Review records actorID's review of the ride. The first review completes
// the request and credits both riders; a later review replaces the score.
func (s *Service) Review(ctx context.Context, actorID, requestID string, score int) (*buddy.Request, error) {
	now := time.Now()

	req, err := s.store.ApplyReview(ctx, requestID, func(req *buddy.Request, owner, experienced *user.User) error {
		if err := Validate(actorID, req, score); err != nil {
			return err
		}
		Apply(req, owner, experienced, score, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("request_id", requestID).
		Int("score", score).
		Msg("ride reviewed")

	return req, nil
}
