// Package reputation applies ride reviews to the counters on both
// participants of a buddy ride.
//
// The first review of a request completes it and credits both riders.
// A rider may re-review later; re-reviews only swap the score, so
// reviewing twice with the same score is a no-op and reviewing with a
// different score corrects the earlier one.
package reputation

import (
	"time"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/user"
)

// Validate checks that actorID may review req with score. Non-participants
// get ErrRequestNotFound so they can't probe for request existence.
func Validate(actorID string, req *buddy.Request, score int) error {
	actor, ok := req.ActorFor(actorID)
	if !ok {
		return buddy.ErrRequestNotFound
	}
	if actor != buddy.ActorOwner {
		return &buddy.ForbiddenError{Reason: "only the requesting cyclist may review the ride"}
	}

	if score != -1 && score != 1 {
		return &models.ValidationError{Errors: []models.FieldError{
			{Field: "score", Message: "must be -1 or 1"},
		}}
	}

	if req.Status != buddy.StatusAccepted && req.Status != buddy.StatusCompleted {
		return &buddy.InvalidTransitionError{
			Reason: "can't review a " + string(req.Status) + " request",
		}
	}

	return nil
}

// Apply records the review on req and updates the reputation counters of
// both riders in place. The caller persists all three atomically.
//
// The owner rode as the inexperienced requester; the experienced rider
// receives the rating. On the first review the request flips to completed
// and both riders are credited with the ride. Subsequent reviews replace
// the prior score without touching the ride counters.
func Apply(req *buddy.Request, owner, experienced *user.User, score int, now time.Time) {
	if req.Status == buddy.StatusCompleted {
		experienced.Reputation.RatingSum += score - req.Review
	} else {
		req.Status = buddy.StatusCompleted

		owner.Reputation.HelpedCount++
		owner.Reputation.DistanceTravelled += req.Length

		experienced.Reputation.UsersHelped++
		experienced.Reputation.DistanceTravelled += req.Length
		experienced.Reputation.RatingSum += score
	}

	req.Review = score
	req.UpdatedAt = now

	if experienced.Reputation.UsersHelped > 0 {
		experienced.Reputation.Rating = float64(experienced.Reputation.RatingSum) / float64(experienced.Reputation.UsersHelped)
	}

	owner.UpdatedAt = now
	experienced.UpdatedAt = now
}
