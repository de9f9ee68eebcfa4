package journey

import "context"

// ListOptions contains options for listing journeys.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing journeys.
type ListResult struct {
	Items      []*Journey
	NextCursor string
}

// Repository defines the interface for journey data persistence.
type Repository interface {
	// Get retrieves a journey by ID.
	Get(ctx context.Context, id string) (*Journey, error)

	// GetByUserAndID retrieves a journey by user ID and journey ID.
	// Returns ErrJourneyNotFound if the journey doesn't exist or doesn't
	// belong to the user.
	GetByUserAndID(ctx context.Context, userID, journeyID string) (*Journey, error)

	// List retrieves all journeys for a user with pagination.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// Create creates a new journey.
	Create(ctx context.Context, journey *Journey) error

	// Update updates an existing journey.
	Update(ctx context.Context, journey *Journey) error

	// Delete deletes a journey by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUser deletes every journey owned by a user.
	DeleteByUser(ctx context.Context, userID string) error
}
