// Package route provides management of recurring ridden routes: the routes
// experienced cyclists record and offer to ride with others.
package route

import (
	"errors"
	"time"

	"github.com/pedalmate/pedalmate/pkg/geo"
)

// Repository errors.
var (
	ErrRouteNotFound = errors.New("route not found")
)

// DaySet is a set of weekdays on which a route is ridden, held as a bitmask
// indexed by time.Weekday. The raw mask is a storage encoding; callers work
// with the set operations below.
type DaySet uint8

// NewDaySet builds a DaySet from the given weekdays.
func NewDaySet(days ...time.Weekday) DaySet {
	var s DaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// AllDays returns the set containing every weekday.
func AllDays() DaySet {
	return DaySet(0x7f)
}

// DaySetFromISO builds a DaySet from ISO 8601 weekday numbers, where
// 1 is Monday and 7 is Sunday. Out-of-range values are ignored.
func DaySetFromISO(days []int) DaySet {
	var s DaySet
	for _, d := range days {
		if d < 1 || d > 7 {
			continue
		}
		s |= 1 << uint(d%7)
	}
	return s
}

// ISO returns the weekdays in the set as ISO 8601 numbers, Monday-first.
func (s DaySet) ISO() []int {
	var days []int
	for iso := 1; iso <= 7; iso++ {
		if s.Has(time.Weekday(iso % 7)) {
			days = append(days, iso)
		}
	}
	return days
}

// Has reports whether the set contains the given weekday.
func (s DaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Intersect returns the intersection of two day sets.
func (s DaySet) Intersect(o DaySet) DaySet {
	return s & o
}

// IsEmpty reports whether the set contains no days.
func (s DaySet) IsEmpty() bool {
	return s == 0
}

// Days returns the weekdays in the set in Sunday-first order.
func (s DaySet) Days() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Route is a recurring ride recorded by its owner. Departure and Arrival
// are clock offsets from local midnight of a nominal journey; Arrival is
// strictly after Departure, which construction-time validation enforces.
type Route struct {
	ID        string
	OwnerID   string
	Name      string
	Polyline  geo.Polyline
	Departure time.Duration
	Arrival   time.Duration
	Days      DaySet
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Length returns the route's total length in meters.
func (r *Route) Length() float64 {
	return r.Polyline.Length()
}

// AverageSpeed returns the derived average speed in meters per second,
// assumed constant along the whole route.
func (r *Route) AverageSpeed() float64 {
	duration := (r.Arrival - r.Departure).Seconds()
	if duration <= 0 {
		return 0
	}
	return r.Polyline.Length() / duration
}

// Bounds returns the bounding box of the route's polyline as
// (minLat, minLon, maxLat, maxLon).
func (r *Route) Bounds() (float64, float64, float64, float64) {
	if len(r.Polyline) == 0 {
		return 0, 0, 0, 0
	}

	minLat, minLon := r.Polyline[0].Lat, r.Polyline[0].Lon
	maxLat, maxLon := minLat, minLon
	for _, p := range r.Polyline[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}
	return minLat, minLon, maxLat, maxLon
}
