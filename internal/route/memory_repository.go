package route

import (
	"context"
	"math"
	"sync"

	"github.com/pedalmate/pedalmate/pkg/geo"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewInMemoryRepository creates a new in-memory route repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		routes: make(map[string]*Route),
	}
}

// Get retrieves a route by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}

	cpy := *rt
	return &cpy, nil
}

// GetByOwnerAndID retrieves a route by owner ID and route ID.
func (r *InMemoryRepository) GetByOwnerAndID(_ context.Context, ownerID, routeID string) (*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.routes[routeID]
	if !ok || rt.OwnerID != ownerID {
		return nil, ErrRouteNotFound
	}

	cpy := *rt
	return &cpy, nil
}

// ListByOwner retrieves all routes owned by a user with pagination.
func (r *InMemoryRepository) ListByOwner(_ context.Context, ownerID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var routes []*Route
	for _, rt := range r.routes {
		if rt.OwnerID == ownerID {
			cpy := *rt
			routes = append(routes, &cpy)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{Items: routes}
	if len(routes) > limit {
		result.Items = routes[:limit]
		result.NextCursor = routes[limit-1].ID
	}

	return result, nil
}

// FindNear retrieves routes whose bounding box, expanded by the radius,
// contains the given point.
func (r *InMemoryRepository) FindNear(_ context.Context, p geo.Point, radiusMeters float64) ([]*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latDelta := radiusMeters / metersPerDegreeLat
	lonDelta := latDelta
	if cosLat := math.Cos(p.Lat * math.Pi / 180); cosLat > 0.01 {
		lonDelta = latDelta / cosLat
	}

	var routes []*Route
	for _, rt := range r.routes {
		minLat, minLon, maxLat, maxLon := rt.Bounds()
		if p.Lat < minLat-latDelta || p.Lat > maxLat+latDelta {
			continue
		}
		if p.Lon < minLon-lonDelta || p.Lon > maxLon+lonDelta {
			continue
		}
		cpy := *rt
		routes = append(routes, &cpy)
	}

	return routes, nil
}

// ListAll retrieves every stored route.
func (r *InMemoryRepository) ListAll(_ context.Context) ([]*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]*Route, 0, len(r.routes))
	for _, rt := range r.routes {
		cpy := *rt
		routes = append(routes, &cpy)
	}
	return routes, nil
}

// Create creates a new route.
func (r *InMemoryRepository) Create(_ context.Context, rt *Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *rt
	r.routes[rt.ID] = &cpy
	return nil
}

// Update updates an existing route.
func (r *InMemoryRepository) Update(_ context.Context, rt *Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[rt.ID]; !ok {
		return ErrRouteNotFound
	}

	cpy := *rt
	r.routes[rt.ID] = &cpy
	return nil
}

// Delete deletes a route by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.routes, id)
	return nil
}

// DeleteByOwner deletes every route owned by a user.
func (r *InMemoryRepository) DeleteByOwner(_ context.Context, ownerID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id, rt := range r.routes {
		if rt.OwnerID == ownerID {
			delete(r.routes, id)
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
