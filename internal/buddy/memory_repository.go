package buddy

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	requests map[string]*Request
}

// NewInMemoryRepository creates a new in-memory buddy request repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		requests: make(map[string]*Request),
	}
}

// Get retrieves a request by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}

	cpy := *req
	return &cpy, nil
}

// List retrieves requests matching the filter, newest first.
func (r *InMemoryRepository) List(_ context.Context, f Filter) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []*Request
	for _, req := range r.requests {
		if f.OwnerID != "" && req.OwnerID != f.OwnerID {
			continue
		}
		if f.ExperiencedUserID != "" && req.ExperiencedUserID != f.ExperiencedUserID {
			continue
		}
		cpy := *req
		requests = append(requests, &cpy)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return requests, nil
}

func isActive(s Status) bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// ListActiveByRoute retrieves non-terminal requests referencing the route.
func (r *InMemoryRepository) ListActiveByRoute(_ context.Context, routeID string) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []*Request
	for _, req := range r.requests {
		if req.ExperiencedRouteID == routeID && isActive(req.Status) {
			cpy := *req
			requests = append(requests, &cpy)
		}
	}
	return requests, nil
}

// ListActiveByUser retrieves non-terminal requests the user participates in.
func (r *InMemoryRepository) ListActiveByUser(_ context.Context, userID string) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []*Request
	for _, req := range r.requests {
		if (req.OwnerID == userID || req.ExperiencedUserID == userID) && isActive(req.Status) {
			cpy := *req
			requests = append(requests, &cpy)
		}
	}
	return requests, nil
}

// Create creates a new request.
func (r *InMemoryRepository) Create(_ context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *req
	r.requests[req.ID] = &cpy
	return nil
}

// Update persists req only if the stored copy still carries expectedUpdated.
func (r *InMemoryRepository) Update(_ context.Context, req *Request, expectedUpdated time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[req.ID]
	if !ok {
		return ErrRequestNotFound
	}
	if !stored.UpdatedAt.Equal(expectedUpdated) {
		return ErrConflict
	}

	cpy := *req
	r.requests[req.ID] = &cpy
	return nil
}

// Delete deletes a request by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.requests, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
