// Package match implements the route matching engine: given a rider's
// start point, end point, radius and day/time constraints, it decides which
// stored routes can carry the rider and computes the rendezvous geometry
// and schedule for each.
package match

import (
	"errors"
	"time"

	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// Radius bounds in meters. Queries outside this range are rejected, not
// clamped.
const (
	MinRadiusMeters = 1
	MaxRadiusMeters = 2000
)

// ErrInvalidRadius is returned when a query radius is outside
// [MinRadiusMeters, MaxRadiusMeters].
var ErrInvalidRadius = errors.New("radius must be between 1 and 2000 meters")

// Query describes what the inexperienced rider is looking for.
type Query struct {
	// Start and End are where the rider wants to begin and finish.
	Start geo.Point
	End   geo.Point

	// RadiusMeters is how far off a route the rider is willing to start
	// or finish. Valid range is [1, 2000].
	RadiusMeters float64

	// Days restricts matching to routes ridden on at least one of these
	// weekdays. The empty set means no restriction (all seven days).
	Days route.DaySet

	// TargetTime, when set, is the specific date and time the rider wants
	// to travel. It pins the required weekday and anchors the absolute
	// meeting and divorce times.
	TargetTime *time.Time
}

// effectiveDays returns the day filter with the all-days default applied.
func (q Query) effectiveDays() route.DaySet {
	if q.Days.IsEmpty() {
		return route.AllDays()
	}
	return q.Days
}

// Result is one matching route with its computed rendezvous geometry and
// schedule. Results are ephemeral: computed per query, never persisted.
type Result struct {
	RouteID   string
	OwnerID   string
	RouteName string

	// MeetingPoint and DivorcePoint are where the rider joins and leaves
	// the route, both on the route polyline.
	MeetingPoint geo.Point
	DivorcePoint geo.Point

	// MeetingTime and DivorceTime are when the route owner passes the
	// meeting and divorce points, anchored to the query's target date.
	MeetingTime time.Time
	DivorceTime time.Time

	// MatchedLength is the shared segment length in meters.
	MatchedLength float64

	// AverageSpeed is the route's derived speed in meters per second.
	AverageSpeed float64

	// DistanceToMeetingPoint and DistanceFromDivorcePoint are how far the
	// rider travels off-route to join and leave, in meters.
	DistanceToMeetingPoint   float64
	DistanceFromDivorcePoint float64

	// TimeToMeetingPoint and TimeFromDivorcePoint are the off-route travel
	// times at the route's average speed.
	TimeToMeetingPoint   time.Duration
	TimeFromDivorcePoint time.Duration

	// Days is the intersection of the route's days and the query's days.
	Days route.DaySet
}

// arrivalAtDestination is when the rider reaches their own end point:
// divorce time plus the ride from the divorce point. Results sort by how
// soon after the requested time this falls.
func (r Result) arrivalAtDestination() time.Time {
	return r.DivorceTime.Add(r.TimeFromDivorcePoint)
}
