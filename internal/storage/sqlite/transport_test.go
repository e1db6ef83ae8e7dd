package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/urbantransit/internal/transport"
)

func TestStopCRUD(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	stops, err := store.ListStops(ctx)
	require.NoError(t, err)
	require.Len(t, stops, 8)
	assert.Equal(t, "Plaza Mayor", stops[0].Name)

	require.NoError(t, store.CreateStop(ctx, transport.Stop{ID: 9, Name: "Moncloa", Latitude: 40.435, Longitude: -3.719}))
	got, err := store.GetStop(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Moncloa", got.Name)

	got.Name = "Moncloa Intercambiador"
	require.NoError(t, store.UpdateStop(ctx, got))
	got, err = store.GetStop(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Moncloa Intercambiador", got.Name)

	require.NoError(t, store.DeleteStop(ctx, 9))
	_, err = store.GetStop(ctx, 9)
	assert.True(t, errors.Is(err, transport.ErrNotFound))
	assert.True(t, errors.Is(store.DeleteStop(ctx, 9), transport.ErrNotFound))
	assert.Error(t, store.CreateStop(ctx, transport.Stop{ID: 1, Name: "dup"}))
}

func TestRoutesThroughStop(t *testing.T) {
	store := newSeededStore(t)

	routes, err := store.RoutesThroughStop(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "Linea 1", routes[0].Name)
	assert.Equal(t, []int{8, 3, 2, 6}, routes[0].StopIDs)
	assert.Equal(t, "Circular Centro", routes[1].Name)
}

func TestRouteCRUD(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	metro, err := store.RoutesByType(ctx, transport.TypeMetro)
	require.NoError(t, err)
	require.Len(t, metro, 1)

	require.NoError(t, store.CreateRoute(ctx, transport.Route{
		ID: 4, Name: "Tranvia Norte", TransportType: transport.TypeTram, StopIDs: []int{8, 3},
	}))
	r, err := store.GetRoute(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 3}, r.StopIDs)

	require.NoError(t, store.AddStopToRoute(ctx, 4, 7))
	stops, err := store.RouteStops(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 3, 7}, stops)

	require.NoError(t, store.RemoveStopFromRoute(ctx, 4, 3))
	stops, err = store.RouteStops(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 7}, stops)

	r.Name = "Tranvia Norte-Este"
	require.NoError(t, store.UpdateRoute(ctx, r))

	require.NoError(t, store.DeleteRoute(ctx, 4))
	_, err = store.GetRoute(ctx, 4)
	assert.True(t, errors.Is(err, transport.ErrNotFound))
	stops, err = store.RouteStops(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, stops)

	assert.Error(t, store.CreateRoute(ctx, transport.Route{ID: 5, Name: "x", TransportType: "ferry"}))
	_, err = store.GetRoute(ctx, 5)
	assert.True(t, errors.Is(err, transport.ErrNotFound), "failed insert must roll back")
}

func TestTripCRUD(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	byRoute, err := store.TripsByRoute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byRoute, 2)
	assert.Equal(t, []int{8, 3, 2, 6}, byRoute[0].StopSequence)

	window, err := store.TripsInWindow(ctx, "07:00", "08:00")
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, 1, window[0].ID)
	assert.Equal(t, 4, window[1].ID)

	require.NoError(t, store.CreateTrip(ctx, transport.Trip{ID: 5, RouteID: 3, StartTime: "18:00", EndTime: "18:15", StopSequence: []int{6}}))
	require.NoError(t, store.AddStopToTrip(ctx, 5, 8, 0))
	stops, err := store.TripStops(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 8}, stops)

	trip, err := store.GetTrip(ctx, 5)
	require.NoError(t, err)
	trip.EndTime = "18:20"
	require.NoError(t, store.UpdateTrip(ctx, trip))

	all, err := store.ListTrips(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	require.NoError(t, store.DeleteTrip(ctx, 5))
	_, err = store.GetTrip(ctx, 5)
	assert.True(t, errors.Is(err, transport.ErrNotFound))
	assert.True(t, errors.Is(store.DeleteTrip(ctx, 5), transport.ErrNotFound))
}

func TestStoreFeedsNetwork(t *testing.T) {
	store := newSeededStore(t)

	n, err := transport.LoadNetwork(context.Background(), store)
	require.NoError(t, err)

	plan, err := n.ShortestPath(1, 6)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Stops)
	assert.Equal(t, 1, plan.Stops[0].ID)
	assert.Equal(t, 6, plan.Stops[len(plan.Stops)-1].ID)
}
