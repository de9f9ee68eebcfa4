package journey

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	journeys map[string]*Journey
}

// NewInMemoryRepository creates a new in-memory journey repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		journeys: make(map[string]*Journey),
	}
}

// Get retrieves a journey by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Journey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.journeys[id]
	if !ok {
		return nil, ErrJourneyNotFound
	}

	cpy := *j
	return &cpy, nil
}

// GetByUserAndID retrieves a journey by user ID and journey ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, journeyID string) (*Journey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.journeys[journeyID]
	if !ok {
		return nil, ErrJourneyNotFound
	}

	if j.UserID != userID {
		return nil, ErrJourneyNotFound
	}

	cpy := *j
	return &cpy, nil
}

// List retrieves all journeys for a user with pagination.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var journeys []*Journey
	for _, j := range r.journeys {
		if j.UserID == userID {
			cpy := *j
			journeys = append(journeys, &cpy)
		}
	}

	sort.Slice(journeys, func(i, k int) bool {
		return journeys[i].CreatedAt.After(journeys[k].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{
		Items: journeys,
	}

	if len(journeys) > limit {
		result.Items = journeys[:limit]
		result.NextCursor = journeys[limit-1].ID
	}

	return result, nil
}

// Create creates a new journey.
func (r *InMemoryRepository) Create(_ context.Context, j *Journey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *j
	r.journeys[j.ID] = &cpy
	return nil
}

// Update updates an existing journey.
func (r *InMemoryRepository) Update(_ context.Context, j *Journey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.journeys[j.ID]; !ok {
		return ErrJourneyNotFound
	}

	cpy := *j
	r.journeys[j.ID] = &cpy
	return nil
}

// Delete deletes a journey by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.journeys, id)
	return nil
}

// DeleteByUser deletes every journey owned by a user.
func (r *InMemoryRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, j := range r.journeys {
		if j.UserID == userID {
			delete(r.journeys, id)
		}
	}
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
