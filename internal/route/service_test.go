package route_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

type recordingEvents struct {
	deleted [][2]string
}

func (e *recordingEvents) RouteDeleted(_ context.Context, routeID, ownerID string) error {
	e.deleted = append(e.deleted, [2]string{routeID, ownerID})
	return nil
}

func newService() (*route.Service, *recordingEvents) {
	events := &recordingEvents{}
	svc := route.NewService(route.ServiceConfig{
		Repository: route.NewInMemoryRepository(),
		Events:     events,
	})
	return svc, events
}

func validInput() route.CreateInput {
	return route.CreateInput{
		Name: "Canal loop",
		Polyline: geo.Polyline{
			{Lat: 52.37, Lon: 4.89},
			{Lat: 52.38, Lon: 4.91},
		},
		Departure: 8 * time.Hour,
		Arrival:   9 * time.Hour,
		Days:      route.NewDaySet(time.Monday, time.Friday),
	}
}

func TestService_Create(t *testing.T) {
	svc, _ := newService()

	rt, err := svc.Create(context.Background(), "usr_owner", validInput())
	require.NoError(t, err)

	assert.Contains(t, rt.ID, "rte_")
	assert.Equal(t, "usr_owner", rt.OwnerID)
	assert.True(t, rt.Days.Has(time.Friday))
	assert.Greater(t, rt.Length(), 0.0)
	assert.Greater(t, rt.AverageSpeed(), 0.0)
}

func TestService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*route.CreateInput)
	}{
		{"empty name", func(in *route.CreateInput) { in.Name = "" }},
		{"name too long", func(in *route.CreateInput) {
			for len(in.Name) <= route.MaxNameLength {
				in.Name += "x"
			}
		}},
		{"single point", func(in *route.CreateInput) { in.Polyline = in.Polyline[:1] }},
		{"latitude out of range", func(in *route.CreateInput) { in.Polyline[0].Lat = 91 }},
		{"arrival before departure", func(in *route.CreateInput) { in.Arrival = 7 * time.Hour }},
		{"arrival equals departure", func(in *route.CreateInput) { in.Arrival = in.Departure }},
		{"departure past midnight", func(in *route.CreateInput) { in.Departure = 25 * time.Hour }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), "usr_owner", in)
			assert.Error(t, err)
		})
	}
}

func TestService_Get_WrongOwner(t *testing.T) {
	svc, _ := newService()
	rt, err := svc.Create(context.Background(), "usr_owner", validInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "usr_other", rt.ID)
	assert.ErrorIs(t, err, route.ErrRouteNotFound)
}

func TestService_Update(t *testing.T) {
	svc, _ := newService()
	rt, err := svc.Create(context.Background(), "usr_owner", validInput())
	require.NoError(t, err)

	name := "Harbor loop"
	days := route.AllDays()
	updated, err := svc.Update(context.Background(), "usr_owner", rt.ID, route.UpdateInput{
		Name: &name,
		Days: &days,
	})
	require.NoError(t, err)

	assert.Equal(t, "Harbor loop", updated.Name)
	assert.Equal(t, route.AllDays(), updated.Days)
	// Untouched fields survive.
	assert.Equal(t, rt.Departure, updated.Departure)
}

func TestService_Update_RevalidatesResult(t *testing.T) {
	svc, _ := newService()
	rt, err := svc.Create(context.Background(), "usr_owner", validInput())
	require.NoError(t, err)

	arrival := 7 * time.Hour
	_, err = svc.Update(context.Background(), "usr_owner", rt.ID, route.UpdateInput{
		Arrival: &arrival,
	})
	assert.Error(t, err)
}

func TestService_Delete_PublishesEvent(t *testing.T) {
	svc, events := newService()
	rt, err := svc.Create(context.Background(), "usr_owner", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "usr_owner", rt.ID))

	require.Len(t, events.deleted, 1)
	assert.Equal(t, [2]string{rt.ID, "usr_owner"}, events.deleted[0])

	_, err = svc.Get(context.Background(), "usr_owner", rt.ID)
	assert.ErrorIs(t, err, route.ErrRouteNotFound)
}

func TestService_DeleteByOwner_PublishesPerRoute(t *testing.T) {
	svc, events := newService()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), "usr_owner", validInput())
		require.NoError(t, err)
	}
	other, err := svc.Create(context.Background(), "usr_other", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByOwner(context.Background(), "usr_owner"))

	assert.Len(t, events.deleted, 3)
	_, err = svc.Get(context.Background(), "usr_other", other.ID)
	assert.NoError(t, err)
}

func TestDaySet_ISORoundTrip(t *testing.T) {
	s := route.DaySetFromISO([]int{1, 5, 7})

	assert.True(t, s.Has(time.Monday))
	assert.True(t, s.Has(time.Friday))
	assert.True(t, s.Has(time.Sunday))
	assert.False(t, s.Has(time.Wednesday))
	assert.Equal(t, []int{1, 5, 7}, s.ISO())
}

func TestDaySet_FromISOIgnoresOutOfRange(t *testing.T) {
	s := route.DaySetFromISO([]int{0, 3, 8})
	assert.Equal(t, []int{3}, s.ISO())
}
