package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

func TestIndex_Near(t *testing.T) {
	ix := match.NewIndex()

	amsterdam := &route.Route{
		ID: "rte_ams",
		Polyline: geo.Polyline{
			{Lat: 52.370, Lon: 4.895},
			{Lat: 52.380, Lon: 4.910},
		},
	}
	utrecht := &route.Route{
		ID: "rte_utr",
		Polyline: geo.Polyline{
			{Lat: 52.090, Lon: 5.121},
			{Lat: 52.100, Lon: 5.130},
		},
	}

	ix.Upsert(amsterdam)
	ix.Upsert(utrecht)
	require.Equal(t, 2, ix.Len())

	near := ix.Near(geo.Point{Lat: 52.371, Lon: 4.896}, 1000)
	require.Len(t, near, 1)
	assert.Equal(t, "rte_ams", near[0].ID)

	// A point far from both routes finds nothing.
	assert.Empty(t, ix.Near(geo.Point{Lat: 51.0, Lon: 3.0}, 2000))
}

func TestIndex_UpsertReplaces(t *testing.T) {
	ix := match.NewIndex()

	rt := &route.Route{
		ID: "rte_move",
		Polyline: geo.Polyline{
			{Lat: 52.370, Lon: 4.895},
			{Lat: 52.380, Lon: 4.910},
		},
	}
	ix.Upsert(rt)

	moved := &route.Route{
		ID: "rte_move",
		Polyline: geo.Polyline{
			{Lat: 51.920, Lon: 4.470},
			{Lat: 51.930, Lon: 4.480},
		},
	}
	ix.Upsert(moved)

	require.Equal(t, 1, ix.Len())
	assert.Empty(t, ix.Near(geo.Point{Lat: 52.371, Lon: 4.896}, 1000))
	assert.Len(t, ix.Near(geo.Point{Lat: 51.921, Lon: 4.471}, 1000), 1)
}

func TestIndex_Remove(t *testing.T) {
	ix := match.NewIndex()

	rt := &route.Route{
		ID: "rte_gone",
		Polyline: geo.Polyline{
			{Lat: 52.370, Lon: 4.895},
			{Lat: 52.380, Lon: 4.910},
		},
	}
	ix.Upsert(rt)
	ix.Remove("rte_gone")

	assert.Zero(t, ix.Len())
	assert.Empty(t, ix.Near(geo.Point{Lat: 52.371, Lon: 4.896}, 1000))
}
