package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hetulpatel/urbantransit/internal/cache"
	"github.com/hetulpatel/urbantransit/internal/logging"
	"github.com/hetulpatel/urbantransit/internal/storage/sqlite"
	"github.com/hetulpatel/urbantransit/internal/transport"
)

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Shortest path between two stops",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseID("stop", args[0])
			if err != nil {
				return err
			}
			to, err := parseID("stop", args[1])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			pc := a.pathCache()
			defer pc.Close()

			rec, err := a.plan(cmd.Context(), store, pc, from, to)
			if err != nil {
				return err
			}
			if len(rec.StopIDs) == 0 {
				fmt.Fprintf(a.stdout, "no path between stops %d and %d\n", from, to)
				return nil
			}
			ids := make([]string, len(rec.StopIDs))
			for i, id := range rec.StopIDs {
				ids[i] = strconv.Itoa(id)
			}
			fmt.Fprintf(a.stdout, "%s (%.2f km)\n", strings.Join(ids, " -> "), rec.DistanceKm)
			return nil
		},
	}
}

// plan answers from the cache when it can, otherwise builds the network and
// stores the result.
func (a *app) plan(ctx context.Context, store *sqlite.Store, pc cache.PathCache, from, to int) (*cache.PathRecord, error) {
	if rec, ok, err := pc.Get(ctx, from, to); err != nil {
		logging.Warnf("[transit] path cache get %d->%d: %v", from, to, err)
	} else if ok {
		logging.Debugf("[transit] path cache hit %d->%d", from, to)
		return rec, nil
	}

	network, err := transport.LoadNetwork(ctx, store)
	if err != nil {
		return nil, err
	}
	p, err := network.ShortestPath(from, to)
	if err != nil {
		return nil, err
	}
	rec := &cache.PathRecord{DistanceKm: p.DistanceKm, UpdatedAt: time.Now().UTC()}
	for _, s := range p.Stops {
		rec.StopIDs = append(rec.StopIDs, s.ID)
	}
	if err := pc.Set(ctx, from, to, *rec); err != nil {
		logging.Warnf("[transit] path cache set %d->%d: %v", from, to, err)
	}
	return rec, nil
}

// pathCache returns the Redis cache scoped to the configured database when
// REDIS_ADDR is set, or a no-op.
func (a *app) pathCache() cache.PathCache {
	if !a.cfg.CacheEnabled() {
		return cache.Noop()
	}
	pc, err := cache.NewRedisPathCache(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB, a.cfg.PathCacheTTL, cache.PrefixFor(a.cfg.Database()))
	if err != nil {
		logging.Warnf("[transit] path cache disabled: %v", err)
		return cache.Noop()
	}
	return pc
}

func newNearbyCmd(a *app) *cobra.Command {
	var radius float64
	cmd := &cobra.Command{
		Use:     "nearby LAT LON",
		Short:   "Stops within a radius of a point",
		Example: "  transit nearby --radius 0.5 -- 40.4169 -3.7035",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := parseCoord("latitude", args[0], 90)
			if err != nil {
				return err
			}
			lon, err := parseCoord("longitude", args[1], 180)
			if err != nil {
				return err
			}
			if radius <= 0 {
				return fmt.Errorf("--radius must be positive")
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			network, err := transport.LoadNetwork(cmd.Context(), store)
			if err != nil {
				return err
			}
			stops := network.NearbyStops(lat, lon, radius)
			for _, s := range stops {
				a.printStop(s)
			}
			a.printTotal(len(stops), "stops")
			return nil
		},
	}
	cmd.Flags().Float64Var(&radius, "radius", 1.0, "Search radius in km")
	return cmd
}

func newReachableCmd(a *app) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "reachable STOP",
		Short: "Stops reachable within a number of hops",
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

			network, err := transport.LoadNetwork(cmd.Context(), store)
			if err != nil {
				return err
			}
			stops, err := network.Reachable(stopID, depth)
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
	cmd.Flags().IntVar(&depth, "depth", 2, "Maximum number of hops")
	return cmd
}
