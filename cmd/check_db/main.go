// check_db lists the tables and views in data/transport.db.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hetulpatel/urbantransit/internal/bootstrap"
	"github.com/hetulpatel/urbantransit/internal/config"
	"github.com/hetulpatel/urbantransit/internal/logging"
)

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

	path := cfg.Database()
	objects, err := bootstrap.Inspect(ctx, path)
	if errors.Is(err, bootstrap.ErrMissingDatabase) {
		fmt.Fprintln(stdout, bootstrap.MissingDBSentinel)
		return bootstrap.ExitMissingDB
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return bootstrap.ExitCode(err)
	}
	logging.Debugf("[check-db] %s has %d objects", path, len(objects))

	if err := bootstrap.WriteObjects(stdout, objects); err != nil {
		logging.Errorf("[check-db] write: %v", err)
		return bootstrap.ExitFailure
	}
	return bootstrap.ExitOK
}
