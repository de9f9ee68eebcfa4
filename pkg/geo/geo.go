// Package geo provides the geometric primitives behind route matching:
// great-circle distance, polyline length, projection of a point onto a
// polyline, and interpolation of a point at a fraction along it.
// All functions are pure and operate on WGS84 degrees.
package geo

import (
	"math"
)

// Point is an immutable latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Polyline is an ordered sequence of points. A valid route polyline has at
// least two points; consecutive duplicates are tolerated.
type Polyline []Point

const earthRadiusMeters = 6371000

// Distance returns the haversine distance between two points in meters.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Length returns the total length of the polyline in meters.
func (pl Polyline) Length() float64 {
	if len(pl) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(pl); i++ {
		total += Distance(pl[i-1], pl[i])
	}
	return total
}

// Closest returns the nearest point on the polyline to p, together with the
// fraction of the polyline's total length at which that point lies.
// Zero-length segments are skipped during the per-segment minimization so a
// degenerate polyline never divides by zero; if every segment is degenerate
// the first point is returned at fraction 0.
func (pl Polyline) Closest(p Point) (Point, float64) {
	if len(pl) == 0 {
		return Point{}, 0
	}
	if len(pl) == 1 {
		return pl[0], 0
	}

	total := pl.Length()

	best := pl[0]
	bestDist := math.Inf(1)
	bestLengthAlong := 0.0

	prefix := 0.0
	for i := 1; i < len(pl); i++ {
		segLen := Distance(pl[i-1], pl[i])
		if segLen == 0 {
			continue
		}

		candidate, t := projectOntoSegment(pl[i-1], pl[i], p)
		if d := Distance(p, candidate); d < bestDist {
			bestDist = d
			best = candidate
			bestLengthAlong = prefix + t*segLen
		}
		prefix += segLen
	}

	if total == 0 {
		return pl[0], 0
	}
	return best, bestLengthAlong / total
}

// Project returns the fraction in [0, 1] of the polyline's total length at
// which the closest approach to p lies.
func (pl Polyline) Project(p Point) float64 {
	_, f := pl.Closest(p)
	return f
}

// Interpolate returns the point at fraction f of the polyline's total
// length. The fraction is clamped to [0, 1].
func (pl Polyline) Interpolate(f float64) Point {
	if len(pl) == 0 {
		return Point{}
	}
	if f <= 0 {
		return pl[0]
	}
	if f >= 1 {
		return pl[len(pl)-1]
	}

	total := pl.Length()
	if total == 0 {
		return pl[0]
	}

	target := f * total
	walked := 0.0
	for i := 1; i < len(pl); i++ {
		segLen := Distance(pl[i-1], pl[i])
		if segLen == 0 {
			continue
		}
		if walked+segLen >= target {
			t := (target - walked) / segLen
			return Point{
				Lat: pl[i-1].Lat + t*(pl[i].Lat-pl[i-1].Lat),
				Lon: pl[i-1].Lon + t*(pl[i].Lon-pl[i-1].Lon),
			}
		}
		walked += segLen
	}

	return pl[len(pl)-1]
}

// projectOntoSegment projects p onto the segment a-b and returns the closest
// point on the segment plus the clamped parameter t in [0, 1]. The segment
// is treated as planar in a local equirectangular frame, which is accurate
// for the sub-kilometer segments typical of recorded rides.
func projectOntoSegment(a, b, p Point) (Point, float64) {
	// Scale longitude by cos(latitude) so degrees are locally isotropic.
	scale := math.Cos(a.Lat * math.Pi / 180)

	ax, ay := a.Lon*scale, a.Lat
	bx, by := b.Lon*scale, b.Lat
	px, py := p.Lon*scale, p.Lat

	dx, dy := bx-ax, by-ay
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return a, 0
	}

	t := ((px-ax)*dx + (py-ay)*dy) / len2
	t = math.Max(0, math.Min(1, t))

	return Point{
		Lat: a.Lat + t*(b.Lat-a.Lat),
		Lon: a.Lon + t*(b.Lon-a.Lon),
	}, t
}
