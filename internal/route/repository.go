package route

import (
	"context"

	"github.com/pedalmate/pedalmate/pkg/geo"
)

// ListOptions contains options for listing routes.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing routes.
type ListResult struct {
	Items      []*Route
	NextCursor string
}

// Repository defines the interface for route data persistence.
type Repository interface {
	// Get retrieves a route by ID.
	Get(ctx context.Context, id string) (*Route, error)

	// GetByOwnerAndID retrieves a route by owner ID and route ID.
	// Returns ErrRouteNotFound if the route doesn't exist or doesn't belong
	// to the owner.
	GetByOwnerAndID(ctx context.Context, ownerID, routeID string) (*Route, error)

	// ListByOwner retrieves all routes owned by a user with pagination.
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) (*ListResult, error)

	// FindNear retrieves routes whose bounding box, expanded by the radius,
	// contains the given point. This is a coarse prefilter; exact geometry
	// is recomputed in-process by the matcher.
	FindNear(ctx context.Context, p geo.Point, radiusMeters float64) ([]*Route, error)

	// ListAll retrieves every stored route. Used to warm the in-memory
	// spatial index at startup.
	ListAll(ctx context.Context) ([]*Route, error)

	// Create creates a new route.
	Create(ctx context.Context, route *Route) error

	// Update updates an existing route.
	Update(ctx context.Context, route *Route) error

	// Delete deletes a route by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByOwner deletes every route owned by a user and returns the
	// deleted route IDs.
	DeleteByOwner(ctx context.Context, ownerID string) ([]string, error)
}
