package reputation

import (
	"context"
	"sync"

	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/user"
)

// MemoryStore applies reviews against in-memory repositories under one
// mutex. This is intended for testing. Production should use PostgresStore.
type MemoryStore struct {
	mu       sync.Mutex
	requests buddy.Repository
	users    user.Repository
}

// NewMemoryStore creates a new in-memory review store.
func NewMemoryStore(requests buddy.Repository, users user.Repository) *MemoryStore {
	return &MemoryStore{requests: requests, users: users}
}

// ApplyReview implements Store.
func (s *MemoryStore) ApplyReview(ctx context.Context, requestID string, fn ReviewFunc) (*buddy.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.Get(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	experienced, err := s.users.Get(ctx, req.ExperiencedUserID)
	if err != nil {
		return nil, err
	}

	observed := req.UpdatedAt
	if err := fn(req, owner, experienced); err != nil {
		return nil, err
	}

	if err := s.requests.Update(ctx, req, observed); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, owner); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, experienced); err != nil {
		return nil, err
	}

	return req, nil
}

// Ensure MemoryStore implements Store interface.
var _ Store = (*MemoryStore)(nil)
