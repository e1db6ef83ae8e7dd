package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hetulpatel/urbantransit/internal/transport"
)

func newStopsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stops",
		Short: "List every stop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stops, err := store.ListStops(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range stops {
				a.printStop(s)
			}
			a.printTotal(len(stops), "stops")
			return nil
		},
	}
}

func newRoutesCmd(a *app) *cobra.Command {
	var transportType string
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List routes, optionally of one transport type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var routes []transport.Route
			if transportType != "" {
				routes, err = store.RoutesByType(cmd.Context(), transportType)
			} else {
				routes, err = store.ListRoutes(cmd.Context())
			}
			if err != nil {
				return err
			}
			for _, r := range routes {
				a.printRoute(r)
			}
			a.printTotal(len(routes), "routes")
			return nil
		},
	}
	cmd.Flags().StringVar(&transportType, "type", "", "Only routes of this type (bus, metro, train, tram)")
	return cmd
}

func newTripsCmd(a *app) *cobra.Command {
	var (
		routeID  int
		from, to string
	)
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List trips by route or time window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (from == "") != (to == "") {
				return fmt.Errorf("--from and --to must be given together")
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			var trips []transport.Trip
			switch {
			case routeID > 0:
				trips, err = store.TripsByRoute(ctx, routeID)
			case from != "":
				trips, err = store.TripsInWindow(ctx, from, to)
			default:
				trips, err = store.ListTrips(ctx)
			}
			if err != nil {
				return err
			}
			for _, t := range trips {
				fmt.Fprintf(a.stdout, "%d\troute %d\t%s-%s\t%v\n", t.ID, t.RouteID, t.StartTime, t.EndTime, t.StopSequence)
			}
			a.printTotal(len(trips), "trips")
			return nil
		},
	}
	cmd.Flags().IntVar(&routeID, "route", 0, "Only trips of this route")
	cmd.Flags().StringVar(&from, "from", "", "Window start (HH:MM)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (HH:MM)")
	return cmd
}

func newThroughCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "through STOP",
		Short: "List routes serving a stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stopID, err := parseID("stop", args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			routes, err := store.RoutesThroughStop(cmd.Context(), stopID)
			if err != nil {
				return err
			}
			for _, r := range routes {
				a.printRoute(r)
			}
			a.printTotal(len(routes), "routes")
			return nil
		},
	}
}
