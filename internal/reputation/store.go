package reputation

import (
	"context"

	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/user"
)

// ReviewFunc mutates the request and both riders. Returning an error
// aborts the review and leaves all three untouched.
type ReviewFunc func(req *buddy.Request, owner, experienced *user.User) error

// Store loads a request with both participants, applies fn, and persists
// all three as one atomic unit.
type Store interface {
	ApplyReview(ctx context.Context, requestID string, fn ReviewFunc) (*buddy.Request, error)
}
