// Package buddy manages the collaboration between a matched pair of
// riders: the request an inexperienced rider sends to an experienced route
// owner, its status lifecycle, and the review that completes it.
package buddy

import (
	"errors"
	"fmt"
	"time"

	"github.com/pedalmate/pedalmate/pkg/geo"
)

// Repository errors.
var (
	// ErrRequestNotFound is returned when a request doesn't exist or the
	// caller is not a participant. Non-participants deliberately see
	// not-found rather than forbidden so probing leaks nothing.
	ErrRequestNotFound = errors.New("buddy request not found")

	// ErrConflict is returned when a concurrent writer modified the
	// request between read and write. Callers should retry the whole
	// operation against fresh state.
	ErrConflict = errors.New("buddy request was modified concurrently")
)

// Status is the lifecycle state of a buddy request.
type Status string

// Lifecycle states. Completed is terminal and reached only via a review.
const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a recognized status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCanceled, StatusCompleted:
		return true
	}
	return false
}

// Actor identifies which side of the collaboration a user is on.
type Actor int

const (
	// ActorOwner is the inexperienced rider who sent the request.
	ActorOwner Actor = iota

	// ActorExperienced is the route owner the request was sent to.
	ActorExperienced
)

// Request links two riders for one matched journey.
//
// OwnerID, ExperiencedUserID, the route references, the matched segment,
// AverageSpeed and CreatedAt are immutable after creation. The meeting and
// divorce fields remain editable by the experienced user until completion.
type Request struct {
	ID                   string
	OwnerID              string
	ExperiencedUserID    string
	ExperiencedRouteID   string
	InexperiencedRouteID string
	ExperiencedRouteName string

	MeetingPoint     geo.Point
	DivorcePoint     geo.Point
	MeetingPointName string
	DivorcePointName string
	MeetingTime      time.Time
	DivorceTime      time.Time

	// Route is the matched segment of the experienced route.
	Route geo.Polyline

	// Length is the matched segment length in meters.
	Length float64

	// AverageSpeed is the experienced route's speed in meters per second.
	AverageSpeed float64

	Status Status
	Reason string

	// Review is -1, 0 or 1; 0 means not yet reviewed.
	Review int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActorFor returns the role userID plays on this request, or false if the
// user is not a participant.
func (r *Request) ActorFor(userID string) (Actor, bool) {
	switch userID {
	case r.OwnerID:
		return ActorOwner, true
	case r.ExperiencedUserID:
		return ActorExperienced, true
	}
	return 0, false
}

// ForbiddenError is returned when a participant attempts a transition their
// role does not permit.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// InvalidTransitionError is returned when the requested status change is
// not allowed from the current state, regardless of actor.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return e.Reason
}

// ReasonRequiredError is returned when a cancellation is attempted without
// a reason.
type ReasonRequiredError struct{}

func (e *ReasonRequiredError) Error() string {
	return "a reason is required to cancel a buddy request"
}

// invalidf builds an InvalidTransitionError.
func invalidf(format string, args ...interface{}) error {
	return &InvalidTransitionError{Reason: fmt.Sprintf(format, args...)}
}
