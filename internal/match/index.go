package match

import (
	"math"
	"sync"

	"github.com/tidwall/rtree"

	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// metersPerDegreeLat approximates one degree of latitude for widening
// search rectangles by a radius in meters.
const metersPerDegreeLat = 111195.0

// Index is an in-process spatial index over route bounding boxes. It serves
// the same coarse prefilter role as the repository's bounding-box query but
// without a database round trip, which suits hot match paths where the
// route corpus fits in memory.
type Index struct {
	mu      sync.RWMutex
	tree    rtree.RTreeG[*route.Route]
	entries map[string]indexEntry
}

type indexEntry struct {
	min, max [2]float64
	rt       *route.Route
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]indexEntry),
	}
}

// Upsert inserts or replaces a route in the index.
func (ix *Index) Upsert(rt *route.Route) {
	minLat, minLon, maxLat, maxLon := rt.Bounds()
	entry := indexEntry{
		min: [2]float64{minLon, minLat},
		max: [2]float64{maxLon, maxLat},
		rt:  rt,
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.entries[rt.ID]; ok {
		ix.tree.Delete(old.min, old.max, old.rt)
	}
	ix.tree.Insert(entry.min, entry.max, rt)
	ix.entries[rt.ID] = entry
}

// Remove deletes a route from the index by ID.
func (ix *Index) Remove(routeID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.entries[routeID]; ok {
		ix.tree.Delete(old.min, old.max, old.rt)
		delete(ix.entries, routeID)
	}
}

// Near returns all routes whose bounding box, expanded by radiusMeters,
// contains the given point.
func (ix *Index) Near(p geo.Point, radiusMeters float64) []*route.Route {
	latDelta := radiusMeters / metersPerDegreeLat
	lonDelta := latDelta
	if cosLat := math.Cos(p.Lat * math.Pi / 180); cosLat > 0.01 {
		lonDelta = latDelta / cosLat
	}

	min := [2]float64{p.Lon - lonDelta, p.Lat - latDelta}
	max := [2]float64{p.Lon + lonDelta, p.Lat + latDelta}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var routes []*route.Route
	ix.tree.Search(min, max, func(_, _ [2]float64, rt *route.Route) bool {
		routes = append(routes, rt)
		return true
	})
	return routes
}

// Len returns the number of routes in the index.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.tree.Len()
}
