// transit queries and edits the transit database: stops, routes, trips and
// shortest paths between stops.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hetulpatel/urbantransit/internal/bootstrap"
	"github.com/hetulpatel/urbantransit/internal/config"
	"github.com/hetulpatel/urbantransit/internal/logging"
)

// errMissingDB is returned after the MISSING_DB sentinel has been printed.
var errMissingDB = errors.New("missing database")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logging.SetOutput(stderr)
	logging.InitFromEnv()

	root := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errMissingDB) {
			return bootstrap.ExitMissingDB
		}
		fmt.Fprintf(stderr, "transit: %v\n", err)
		return bootstrap.ExitFailure
	}
	return bootstrap.ExitOK
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "transit",
		Short:         "Query and edit the urban transit database",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if db, _ := cmd.Flags().GetString("db"); db != "" {
				cfg.DBPath = db
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().String("db", "", "Database file (defaults to SQLITE_PATH or data/transport.db)")
	root.AddCommand(
		newStopsCmd(a),
		newRoutesCmd(a),
		newTripsCmd(a),
		newPathCmd(a),
		newThroughCmd(a),
		newNearbyCmd(a),
		newReachableCmd(a),
		newStopCmd(a),
		newRouteCmd(a),
		newTripCmd(a),
		newWatchCmd(a),
	)
	return root
}
