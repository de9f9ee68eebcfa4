// Package user provides rider profiles and the reputation counters that
// the review flow maintains.
package user

import (
	"time"
)

// User represents a rider. The same account can ride both sides of a
// buddy ride: as the experienced route owner and as the inexperienced
// requester.
type User struct {
	// ID is the unique user identifier (format: usr_XXXX).
	ID string

	// DisplayName is the rider's public name.
	DisplayName string

	// Locale is the user's preferred language/region (BCP 47 format, e.g., "nl-NL").
	Locale string

	// Reputation holds the review-derived counters.
	Reputation Reputation

	// CreatedAt is when the user was created.
	CreatedAt time.Time

	// UpdatedAt is when the user was last updated.
	UpdatedAt time.Time
}

// Reputation holds the counters maintained by the review flow. Nothing
// else writes these fields.
type Reputation struct {
	// DistanceTravelled is the total meters of matched segment ridden on
	// completed buddy rides, counted for both participants.
	DistanceTravelled float64

	// HelpedCount is how many distinct completed rides this user was
	// helped on, riding as the inexperienced requester.
	HelpedCount int

	// UsersHelped is how many distinct completed rides this user guided,
	// riding as the experienced route owner.
	UsersHelped int

	// RatingSum is the sum of review scores received as an experienced
	// rider. Each score is -1 or 1.
	RatingSum int

	// Rating is RatingSum divided by UsersHelped, or 0 before the first
	// received review.
	Rating float64
}

// DefaultUser returns a new user with zeroed reputation.
func DefaultUser(id string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		Locale:    "nl-NL",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
