package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hetulpatel/urbantransit/internal/cache"
	"github.com/hetulpatel/urbantransit/internal/kafka"
	"github.com/hetulpatel/urbantransit/internal/logging"
	"github.com/hetulpatel/urbantransit/internal/queue"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Purge the path cache whenever the database is re-created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.EventsEnabled() {
				return fmt.Errorf("KAFKA_BROKERS is not set")
			}
			if !a.cfg.CacheEnabled() {
				return fmt.Errorf("REDIS_ADDR is not set")
			}
			ctx := cmd.Context()
			brokers := a.cfg.KafkaBrokers

			warn, err := kafka.Prepare(ctx, brokers, a.cfg.LifecycleTopic)
			if err != nil {
				return err
			}
			if warn != nil {
				logging.Warnf("[transit] ensure topic warning: %v", warn)
			}

			pc := a.pathCache()
			defer pc.Close()

			reader := kafka.NewReader(brokers, a.cfg.LifecycleTopic, a.cfg.WatchGroup)
			defer reader.Close()

			logging.Infof("[transit] watching %s with group %s for %s", a.cfg.LifecycleTopic, a.cfg.WatchGroup, a.cfg.Database())
			for {
				msg, err := reader.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					logging.Errorf("[transit] read error: %v", err)
					continue
				}
				ev, err := queue.DecodeDatabaseEvent(msg)
				if err != nil {
					logging.Errorf("[transit] %v", err)
					continue
				}
				if _, err := invalidate(ctx, pc, ev, a.cfg.Database()); err != nil {
					logging.Errorf("[transit] purge path cache: %v", err)
				}
			}
		},
	}
}

// invalidate drops cached paths after dbPath was re-initialized. Events for
// other databases are ignored; their paths live under another prefix.
func invalidate(ctx context.Context, pc cache.PathCache, ev queue.DatabaseEvent, dbPath string) (int, error) {
	if ev.Type != queue.EventInitialized || ev.Path != dbPath {
		return 0, nil
	}
	n, err := pc.Purge(ctx)
	if err != nil {
		return 0, err
	}
	logging.Infof("[transit] %s re-created (checksum %.12s), purged %d cached paths", ev.Path, ev.Checksum, n)
	return n, nil
}
