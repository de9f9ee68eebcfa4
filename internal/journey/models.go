// Package journey provides management of saved journeys: the start/end
// pairs inexperienced riders search matches for regularly.
package journey

import (
	"errors"
	"time"

	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// Repository errors.
var (
	ErrJourneyNotFound = errors.New("journey not found")
)

// Journey is a saved search: where the rider wants to go, how far off a
// route they are willing to start and finish, and on which days.
type Journey struct {
	ID           string
	UserID       string
	Label        string
	Start        geo.Point
	End          geo.Point
	RadiusMeters float64
	Days         route.DaySet
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
