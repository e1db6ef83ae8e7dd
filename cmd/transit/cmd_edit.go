package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hetulpatel/urbantransit/internal/logging"
	"github.com/hetulpatel/urbantransit/internal/storage/sqlite"
	"github.com/hetulpatel/urbantransit/internal/transport"
)

// mutate applies fn to the configured database. Changes to stops or routes
// reshape the network, so they also drop the cached paths of this database.
func (a *app) mutate(ctx context.Context, reshapes bool, fn func(*sqlite.Store) error) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := fn(store); err != nil {
		return err
	}
	if !reshapes {
		return nil
	}
	pc := a.pathCache()
	defer pc.Close()
	n, err := pc.Purge(ctx)
	if err != nil {
		logging.Warnf("[transit] purge path cache: %v", err)
		return nil
	}
	logging.Debugf("[transit] purged %d cached paths", n)
	return nil
}

func (a *app) done(kind string, id int, verb string) {
	fmt.Fprintf(a.stdout, "%s %d %s\n", kind, id, verb)
}

func parseStopArgs(args []string) (transport.Stop, error) {
	id, err := parseID("stop", args[0])
	if err != nil {
		return transport.Stop{}, err
	}
	lat, err := parseCoord("latitude", args[2], 90)
	if err != nil {
		return transport.Stop{}, err
	}
	lon, err := parseCoord("longitude", args[3], 180)
	if err != nil {
		return transport.Stop{}, err
	}
	return transport.Stop{ID: id, Name: args[1], Latitude: lat, Longitude: lon}, nil
}

func parseRouteArgs(args []string) (transport.Route, error) {
	id, err := parseID("route", args[0])
	if err != nil {
		return transport.Route{}, err
	}
	switch args[2] {
	case transport.TypeBus, transport.TypeMetro, transport.TypeTrain, transport.TypeTram:
	default:
		return transport.Route{}, fmt.Errorf("invalid transport type %q", args[2])
	}
	return transport.Route{ID: id, Name: args[1], TransportType: args[2]}, nil
}

// parseClock accepts "HH:MM" only, which keeps times lexically comparable.
func parseClock(raw string) (string, error) {
	if _, err := time.Parse("15:04", raw); err != nil || len(raw) != 5 {
		return "", fmt.Errorf("invalid time %q, want HH:MM", raw)
	}
	return raw, nil
}

func parseTripArgs(args []string) (transport.Trip, error) {
	id, err := parseID("trip", args[0])
	if err != nil {
		return transport.Trip{}, err
	}
	routeID, err := parseID("route", args[1])
	if err != nil {
		return transport.Trip{}, err
	}
	start, err := parseClock(args[2])
	if err != nil {
		return transport.Trip{}, err
	}
	end, err := parseClock(args[3])
	if err != nil {
		return transport.Trip{}, err
	}
	if end < start {
		return transport.Trip{}, fmt.Errorf("trip ends at %s before it starts at %s", end, start)
	}
	return transport.Trip{ID: id, RouteID: routeID, StartTime: start, EndTime: end}, nil
}

func parseIDs(kind string, args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, raw := range args {
		id, err := parseID(kind, raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parsePair reads "<owner> STOP" arguments such as ROUTE STOP.
func parsePair(owner string, args []string) (int, int, error) {
	id, err := parseID(owner, args[0])
	if err != nil {
		return 0, 0, err
	}
	stopID, err := parseID("stop", args[1])
	if err != nil {
		return 0, 0, err
	}
	return id, stopID, nil
}

func newStopCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Add, update or remove stops",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "add ID NAME LAT LON",
			Short:   "Add a stop",
			Example: "  transit stop add -- 9 \"Principe Pio\" 40.4213 -3.7206",
			Args:    cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				stop, err := parseStopArgs(args)
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), true, func(s *sqlite.Store) error {
					return s.CreateStop(cmd.Context(), stop)
				})
				if err != nil {
					return err
				}
				a.done("stop", stop.ID, "added")
				return nil
			},
		},
		&cobra.Command{
			Use:   "update ID NAME LAT LON",
			Short: "Rename or move a stop",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				stop, err := parseStopArgs(args)
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), true, func(s *sqlite.Store) error {
					return s.UpdateStop(cmd.Context(), stop)
				})
				if err != nil {
					return err
				}
				a.done("stop", stop.ID, "updated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm ID",
			Short: "Remove a stop",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("stop", args[0])
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), true, func(s *sqlite.Store) error {
					return s.DeleteStop(cmd.Context(), id)
				})
				if err != nil {
					return err
				}
				a.done("stop", id, "removed")
				return nil
			},
		},
	)
	return cmd
}

func newRouteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Add, update or remove routes and their stops",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "add ID NAME TYPE [STOP...]",
			Short:   "Add a route with its stops in order",
			Example: "  transit route add 4 \"Tranvia Norte\" tram 8 3",
			Args:    cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				route, err := parseRouteArgs(args)
				if err != nil {
					return err
				}
				if route.StopIDs, err = parseIDs("stop", args[3:]); err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), true, func(s *sqlite.Store) error {
					return s.CreateRoute(cmd.Context(), route)
				})
				if err != nil {
					return err
				}
				a.done("route", route.ID, "added")
				return nil
			},
		},
		&cobra.Command{
			Use:   "update ID NAME TYPE",
			Short: "Rename a route or change its transport type",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				route, err := parseRouteArgs(args)
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), false, func(s *sqlite.Store) error {
					return s.UpdateRoute(cmd.Context(), route)
				})
				if err != nil {
					return err
				}
				a.done("route", route.ID, "updated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm ID",
			Short: "Remove a route and its stop list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("route", args[0])
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), true, func(s *sqlite.Store) error {
					return s.DeleteRoute(cmd.Context(), id)
				})
				if err != nil {
					return err
				}
				a.done("route", id, "removed")
				return nil
			},
		},
		&cobra.Command{
			Use:   "add-stop ROUTE STOP",
			Short: "Append a stop to the end of a route",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				routeID, stopID, err := parsePair("route", args)
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), true, func(s *sqlite.Store) error {
					if _, err := s.GetRoute(cmd.Context(), routeID); err != nil {
						return err
					}
					return s.AddStopToRoute(cmd.Context(), routeID, stopID)
				})
				if err != nil {
					return err
				}
				a.done("route", routeID, fmt.Sprintf("now ends at stop %d", stopID))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm-stop ROUTE STOP",
			Short: "Remove a stop from a route",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				routeID, stopID, err := parsePair("route", args)
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), true, func(s *sqlite.Store) error {
					return s.RemoveStopFromRoute(cmd.Context(), routeID, stopID)
				})
				if err != nil {
					return err
				}
				a.done("route", routeID, fmt.Sprintf("no longer serves stop %d", stopID))
				return nil
			},
		},
	)
	return cmd
}

func newTripCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Add, update or remove trips and their stops",
	}

	var seq int
	addStop := &cobra.Command{
		Use:   "add-stop TRIP STOP",
		Short: "Add a stop to a trip, appended unless --seq is given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID, stopID, err := parsePair("trip", args)
			if err != nil {
				return err
			}
			err = a.mutate(cmd.Context(), false, func(s *sqlite.Store) error {
				if _, err := s.GetTrip(cmd.Context(), tripID); err != nil {
					return err
				}
				return s.AddStopToTrip(cmd.Context(), tripID, stopID, seq)
			})
			if err != nil {
				return err
			}
			a.done("trip", tripID, fmt.Sprintf("stops at %d", stopID))
			return nil
		},
	}
	addStop.Flags().IntVar(&seq, "seq", 0, "Sequence number for the stop (default: after the last one)")

	cmd.AddCommand(
		&cobra.Command{
			Use:     "add ID ROUTE START END [STOP...]",
			Short:   "Add a trip of a route",
			Example: "  transit trip add 5 1 18:00 18:25 8 3 2 6",
			Args:    cobra.MinimumNArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				trip, err := parseTripArgs(args)
				if err != nil {
					return err
				}
				if trip.StopSequence, err = parseIDs("stop", args[4:]); err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), false, func(s *sqlite.Store) error {
					if _, err := s.GetRoute(cmd.Context(), trip.RouteID); err != nil {
						return err
					}
					return s.CreateTrip(cmd.Context(), trip)
				})
				if err != nil {
					return err
				}
				a.done("trip", trip.ID, "added")
				return nil
			},
		},
		&cobra.Command{
			Use:   "update ID ROUTE START END",
			Short: "Move a trip to another route or time",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				trip, err := parseTripArgs(args)
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), false, func(s *sqlite.Store) error {
					return s.UpdateTrip(cmd.Context(), trip)
				})
				if err != nil {
					return err
				}
				a.done("trip", trip.ID, "updated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm ID",
			Short: "Remove a trip and its stop sequence",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("trip", args[0])
				if err != nil {
					return err
				}
				err = a.mutate(cmd.Context(), false, func(s *sqlite.Store) error {
					return s.DeleteTrip(cmd.Context(), id)
				})
				if err != nil {
					return err
				}
				a.done("trip", id, "removed")
				return nil
			},
		},
		addStop,
	)
	return cmd
}
