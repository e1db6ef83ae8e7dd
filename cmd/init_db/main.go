// init_db re-creates data/transport.db from data/schema.sql and the two seed
// scripts under data/seed.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/hetulpatel/urbantransit/internal/bootstrap"
	"github.com/hetulpatel/urbantransit/internal/config"
	"github.com/hetulpatel/urbantransit/internal/kafka"
	"github.com/hetulpatel/urbantransit/internal/logging"
	"github.com/hetulpatel/urbantransit/internal/queue"
)

const publishTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, stdout, stderr io.Writer) int {
	logging.SetOutput(stderr)
	logging.InitFromEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return bootstrap.ExitFailure
	}

	plan := bootstrap.Plan{DBPath: cfg.Database(), Scripts: cfg.Inputs()}
	logging.Debugf("[init-db] creating %s from %v", plan.DBPath, plan.Scripts)

	res, err := bootstrap.Initialize(ctx, plan)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return bootstrap.ExitCode(err)
	}
	fmt.Fprintf(stdout, "DB_CREATED: created %s\n", res.Path)

	if cfg.EventsEnabled() {
		announce(ctx, cfg, res)
	}
	return bootstrap.ExitOK
}

// announce publishes the lifecycle event. Failures are logged only: the
// database already exists at this point.
func announce(ctx context.Context, cfg config.Config, res *bootstrap.Result) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.LifecycleTopic)
	defer writer.Close()

	names := make([]string, 0, len(res.Objects))
	for _, o := range res.Objects {
		names = append(names, o.Name)
	}
	ev := queue.DatabaseEvent{
		Type:      queue.EventInitialized,
		Path:      res.Path,
		Checksum:  res.Checksum,
		Objects:   names,
		CreatedAt: time.Now().UTC(),
	}
	if err := queue.PublishDatabaseEvent(ctx, writer, ev); err != nil {
		logging.Warnf("[init-db] publish lifecycle event to %s: %v", cfg.LifecycleTopic, err)
		return
	}
	logging.Infof("[init-db] published %s event for %s", ev.Type, ev.Path)
}
