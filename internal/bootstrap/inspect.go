package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hetulpatel/urbantransit/internal/storage/sqlite"
)

// Sentinels printed by the inspector.
const (
	MissingDBSentinel = "MISSING_DB"
	NoTablesSentinel  = "NO_TABLES"
)

// Inspect lists the tables and views of an existing database, ordered by name.
func Inspect(ctx context.Context, path string) ([]sqlite.Object, error) {
	store, err := sqlite.OpenExisting(path)
	if errors.Is(err, sqlite.ErrMissing) {
		return nil, fmt.Errorf("%w: %s", ErrMissingDatabase, path)
	}
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Objects(ctx)
}

// WriteObjects prints one "<kind>: <name>" line per object, or the
// NO_TABLES sentinel when there are none.
func WriteObjects(w io.Writer, objects []sqlite.Object) error {
	if len(objects) == 0 {
		_, err := fmt.Fprintln(w, NoTablesSentinel)
		return err
	}
	for _, o := range objects {
		if _, err := fmt.Fprintf(w, "%s: %s\n", o.Type, o.Name); err != nil {
			return err
		}
	}
	return nil
}
