package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hetulpatel/urbantransit/internal/transport"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CreateStop inserts a stop.
func (s *Store) CreateStop(ctx context.Context, stop transport.Stop) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stops (id, name, latitude, longitude) VALUES (?, ?, ?, ?)`,
		stop.ID, stop.Name, stop.Latitude, stop.Longitude)
	if err != nil {
		return fmt.Errorf("insert stop %d: %w", stop.ID, err)
	}
	return nil
}

// GetStop loads one stop or returns transport.ErrNotFound.
func (s *Store) GetStop(ctx context.Context, id int) (transport.Stop, error) {
	var stop transport.Stop
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude FROM stops WHERE id = ?`, id,
	).Scan(&stop.ID, &stop.Name, &stop.Latitude, &stop.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return transport.Stop{}, fmt.Errorf("stop %d: %w", id, transport.ErrNotFound)
	}
	return stop, err
}

// ListStops returns every stop ordered by ID.
func (s *Store) ListStops(ctx context.Context) ([]transport.Stop, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, latitude, longitude FROM stops ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query stops: %w", err)
	}
	defer rows.Close()

	var out []transport.Stop
	for rows.Next() {
		var stop transport.Stop
		if err := rows.Scan(&stop.ID, &stop.Name, &stop.Latitude, &stop.Longitude); err != nil {
			return nil, err
		}
		out = append(out, stop)
	}
	return out, rows.Err()
}

// UpdateStop rewrites name and coordinates.
func (s *Store) UpdateStop(ctx context.Context, stop transport.Stop) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE stops SET name = ?, latitude = ?, longitude = ? WHERE id = ?`,
		stop.Name, stop.Latitude, stop.Longitude, stop.ID)
	return affected(res, err, "stop", stop.ID)
}

// DeleteStop removes a stop.
func (s *Store) DeleteStop(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stops WHERE id = ?`, id)
	return affected(res, err, "stop", id)
}

// RoutesThroughStop returns routes that include stopID, with their stop lists.
func (s *Store) RoutesThroughStop(ctx context.Context, stopID int) ([]transport.Route, error) {
	return s.queryRoutes(ctx, `
SELECT DISTINCT r.id, r.name, r.transport_type
FROM routes r
JOIN route_stops rs ON r.id = rs.route_id
WHERE rs.stop_id = ?
ORDER BY r.id`, stopID)
}

// CreateRoute inserts a route and its stop list in one transaction.
func (s *Store) CreateRoute(ctx context.Context, route transport.Route) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO routes (id, name, transport_type) VALUES (?, ?, ?)`,
		route.ID, route.Name, route.TransportType); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert route %d: %w", route.ID, err)
	}
	for i, stopID := range route.StopIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO route_stops (route_id, stop_id, sequence) VALUES (?, ?, ?)`,
			route.ID, stopID, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert route %d stop %d: %w", route.ID, stopID, err)
		}
	}
	return tx.Commit()
}

// GetRoute loads one route with its ordered stops.
func (s *Store) GetRoute(ctx context.Context, id int) (transport.Route, error) {
	routes, err := s.queryRoutes(ctx, `SELECT id, name, transport_type FROM routes WHERE id = ?`, id)
	if err != nil {
		return transport.Route{}, err
	}
	if len(routes) == 0 {
		return transport.Route{}, fmt.Errorf("route %d: %w", id, transport.ErrNotFound)
	}
	return routes[0], nil
}

// ListRoutes returns every route ordered by ID.
func (s *Store) ListRoutes(ctx context.Context) ([]transport.Route, error) {
	return s.queryRoutes(ctx, `SELECT id, name, transport_type FROM routes ORDER BY id`)
}

// RoutesByType filters routes by transport type.
func (s *Store) RoutesByType(ctx context.Context, transportType string) ([]transport.Route, error) {
	return s.queryRoutes(ctx, `SELECT id, name, transport_type FROM routes WHERE transport_type = ? ORDER BY id`, transportType)
}

// UpdateRoute rewrites name and type; the stop list is managed separately.
func (s *Store) UpdateRoute(ctx context.Context, route transport.Route) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE routes SET name = ?, transport_type = ? WHERE id = ?`,
		route.Name, route.TransportType, route.ID)
	return affected(res, err, "route", route.ID)
}

// DeleteRoute removes a route and its stop links.
func (s *Store) DeleteRoute(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM route_stops WHERE route_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err := affected(res, err, "route", id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RouteStops returns the stop IDs of a route in sequence order.
func (s *Store) RouteStops(ctx context.Context, routeID int) ([]int, error) {
	return queryInts(ctx, s.db, `SELECT stop_id FROM route_stops WHERE route_id = ? ORDER BY sequence`, routeID)
}

// AddStopToRoute appends a stop after the route's current last stop.
func (s *Store) AddStopToRoute(ctx context.Context, routeID, stopID int) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO route_stops (route_id, stop_id, sequence)
VALUES (?, ?, (SELECT COALESCE(MAX(sequence), 0) + 1 FROM route_stops WHERE route_id = ?))`,
		routeID, stopID, routeID)
	if err != nil {
		return fmt.Errorf("add stop %d to route %d: %w", stopID, routeID, err)
	}
	return nil
}

// RemoveStopFromRoute drops every occurrence of stopID from the route.
func (s *Store) RemoveStopFromRoute(ctx context.Context, routeID, stopID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM route_stops WHERE route_id = ? AND stop_id = ?`, routeID, stopID)
	return err
}

func (s *Store) queryRoutes(ctx context.Context, query string, args ...any) ([]transport.Route, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	var out []transport.Route
	for rows.Next() {
		var r transport.Route
		if err := rows.Scan(&r.ID, &r.Name, &r.TransportType); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, r)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].StopIDs, err = s.RouteStops(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CreateTrip inserts a trip and its stop sequence.
func (s *Store) CreateTrip(ctx context.Context, trip transport.Trip) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO trips (id, route_id, start_time, end_time) VALUES (?, ?, ?, ?)`,
		trip.ID, trip.RouteID, trip.StartTime, trip.EndTime); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert trip %d: %w", trip.ID, err)
	}
	for i, stopID := range trip.StopSequence {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trip_stops (trip_id, stop_id, arrival_time, sequence) VALUES (?, ?, NULL, ?)`,
			trip.ID, stopID, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert trip %d stop %d: %w", trip.ID, stopID, err)
		}
	}
	return tx.Commit()
}

// GetTrip loads one trip with its stop sequence.
func (s *Store) GetTrip(ctx context.Context, id int) (transport.Trip, error) {
	trips, err := s.queryTrips(ctx, `SELECT id, route_id, start_time, end_time FROM trips WHERE id = ?`, id)
	if err != nil {
		return transport.Trip{}, err
	}
	if len(trips) == 0 {
		return transport.Trip{}, fmt.Errorf("trip %d: %w", id, transport.ErrNotFound)
	}
	return trips[0], nil
}

// ListTrips returns every trip ordered by ID.
func (s *Store) ListTrips(ctx context.Context) ([]transport.Trip, error) {
	return s.queryTrips(ctx, `SELECT id, route_id, start_time, end_time FROM trips ORDER BY id`)
}

// UpdateTrip rewrites route and times.
func (s *Store) UpdateTrip(ctx context.Context, trip transport.Trip) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trips SET route_id = ?, start_time = ?, end_time = ? WHERE id = ?`,
		trip.RouteID, trip.StartTime, trip.EndTime, trip.ID)
	return affected(res, err, "trip", trip.ID)
}

// DeleteTrip removes a trip and its stop sequence.
func (s *Store) DeleteTrip(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trip_stops WHERE trip_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err := affected(res, err, "trip", id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// TripsByRoute returns the trips of one route ordered by ID.
func (s *Store) TripsByRoute(ctx context.Context, routeID int) ([]transport.Trip, error) {
	return s.queryTrips(ctx, `SELECT id, route_id, start_time, end_time FROM trips WHERE route_id = ? ORDER BY id`, routeID)
}

// TripsInWindow returns trips that start at or after start and end at or
// before end, ordered by start time.
func (s *Store) TripsInWindow(ctx context.Context, start, end string) ([]transport.Trip, error) {
	return s.queryTrips(ctx, `
SELECT id, route_id, start_time, end_time FROM trips
WHERE start_time >= ? AND end_time <= ?
ORDER BY start_time, id`, start, end)
}

// AddStopToTrip inserts a stop at sequence; sequence <= 0 appends.
func (s *Store) AddStopToTrip(ctx context.Context, tripID, stopID, sequence int) error {
	var err error
	if sequence <= 0 {
		_, err = s.db.ExecContext(ctx, `
INSERT INTO trip_stops (trip_id, stop_id, arrival_time, sequence)
VALUES (?, ?, NULL, (SELECT COALESCE(MAX(sequence), 0) + 1 FROM trip_stops WHERE trip_id = ?))`,
			tripID, stopID, tripID)
	} else {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO trip_stops (trip_id, stop_id, arrival_time, sequence) VALUES (?, ?, NULL, ?)`,
			tripID, stopID, sequence)
	}
	if err != nil {
		return fmt.Errorf("add stop %d to trip %d: %w", stopID, tripID, err)
	}
	return nil
}

// TripStops returns the stop IDs of a trip in sequence order.
func (s *Store) TripStops(ctx context.Context, tripID int) ([]int, error) {
	return queryInts(ctx, s.db, `SELECT stop_id FROM trip_stops WHERE trip_id = ? ORDER BY sequence`, tripID)
}

func (s *Store) queryTrips(ctx context.Context, query string, args ...any) ([]transport.Trip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	var out []transport.Trip
	for rows.Next() {
		var t transport.Trip
		if err := rows.Scan(&t.ID, &t.RouteID, &t.StartTime, &t.EndTime); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, t)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].StopSequence, err = s.TripStops(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func queryInts(ctx context.Context, q querier, query string, args ...any) ([]int, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func affected(res sql.Result, err error, kind string, id int) error {
	if err != nil {
		return fmt.Errorf("%s %d: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, transport.ErrNotFound)
	}
	return nil
}
