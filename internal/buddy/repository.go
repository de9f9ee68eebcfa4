package buddy

import (
	"context"
	"time"
)

// Filter narrows a request listing. Zero-valued fields are ignored.
type Filter struct {
	OwnerID           string
	ExperiencedUserID string
}

// Repository defines the interface for buddy request persistence.
//
// Update carries the caller's previously observed UpdatedAt stamp so two
// concurrent writers on the same request serialize: the loser fails with
// ErrConflict instead of silently overwriting.
type Repository interface {
	// Get retrieves a request by ID.
	Get(ctx context.Context, id string) (*Request, error)

	// List retrieves requests matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*Request, error)

	// ListActiveByRoute retrieves non-terminal requests referencing the
	// given experienced route.
	ListActiveByRoute(ctx context.Context, routeID string) ([]*Request, error)

	// ListActiveByUser retrieves non-terminal requests in which the user
	// participates on either side.
	ListActiveByUser(ctx context.Context, userID string) ([]*Request, error)

	// Create creates a new request.
	Create(ctx context.Context, req *Request) error

	// Update persists req only if the stored row still carries
	// expectedUpdated; otherwise it returns ErrConflict.
	Update(ctx context.Context, req *Request, expectedUpdated time.Time) error

	// Delete deletes a request by ID.
	Delete(ctx context.Context, id string) error
}
