package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hetulpatel/urbantransit/internal/bootstrap"
	"github.com/hetulpatel/urbantransit/internal/storage/sqlite"
	"github.com/hetulpatel/urbantransit/internal/transport"
)

// openStore opens the configured database, printing MISSING_DB when absent.
func (a *app) openStore() (*sqlite.Store, error) {
	store, err := sqlite.OpenExisting(a.cfg.Database())
	if errors.Is(err, sqlite.ErrMissing) {
		fmt.Fprintln(a.stdout, bootstrap.MissingDBSentinel)
		return nil, errMissingDB
	}
	return store, err
}

func parseID(kind, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}

func parseCoord(kind, raw string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s %q", kind, raw)
	}
	return v, nil
}

func (a *app) printStop(s transport.Stop) {
	fmt.Fprintf(a.stdout, "%d\t%s\t(%.4f, %.4f)\n", s.ID, s.Name, s.Latitude, s.Longitude)
}

func (a *app) printRoute(r transport.Route) {
	fmt.Fprintf(a.stdout, "%d\t%s\t%s\t%d stops\n", r.ID, r.Name, r.TransportType, len(r.StopIDs))
}

func (a *app) printTotal(n int, noun string) {
	fmt.Fprintf(a.stdout, "Total: %d %s\n", n, noun)
}
