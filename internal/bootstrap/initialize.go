// Package bootstrap re-creates the transit database from its SQL inputs and
// inspects what a database file contains.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hetulpatel/urbantransit/internal/hashutil"
	"github.com/hetulpatel/urbantransit/internal/logging"
	"github.com/hetulpatel/urbantransit/internal/storage/sqlite"
)

// sidecars are the files SQLite may leave next to a database.
var sidecars = []string{"-wal", "-shm", "-journal"}

// Plan names the database to create and the scripts to run, in order.
type Plan struct {
	DBPath  string
	Scripts []string
}

// Result describes a freshly created database.
type Result struct {
	Path     string
	Checksum string
	Objects  []sqlite.Object
}

// Initialize deletes any database at plan.DBPath and builds a new one from the
// scripts. On failure no database file is left behind, except when the old
// file itself could not be removed.
func Initialize(ctx context.Context, plan Plan) (*Result, error) {
	path, err := filepath.Abs(plan.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", plan.DBPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: ensure data dir: %v", ErrExecute, err)
	}
	if err := removeDatabase(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoveExisting, err)
	}
	logging.Debugf("[bootstrap] cleared %s", path)

	scripts := make([]sqlite.Script, 0, len(plan.Scripts))
	raw := make([][]byte, 0, len(plan.Scripts))
	for _, name := range plan.Scripts {
		body, err := os.ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, name)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrExecute, name, err)
		}
		scripts = append(scripts, sqlite.Script{Name: filepath.Base(name), SQL: string(body)})
		raw = append(raw, body)
	}

	objects, err := build(ctx, path, scripts)
	if err != nil {
		if rmErr := removeDatabase(path); rmErr != nil {
			logging.Warnf("[bootstrap] cleanup %s: %v", path, rmErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrExecute, err)
	}
	return &Result{
		Path:     path,
		Checksum: hashutil.ScriptChecksum(raw...),
		Objects:  objects,
	}, nil
}

func build(ctx context.Context, path string, scripts []sqlite.Script) ([]sqlite.Object, error) {
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	for _, s := range scripts {
		logging.Debugf("[bootstrap] executing %s (%d bytes)", s.Name, len(s.SQL))
	}
	if err := store.ExecScripts(ctx, scripts...); err != nil {
		return nil, err
	}
	return store.Objects(ctx)
}

func removeDatabase(path string) error {
	for _, suffix := range append([]string{""}, sidecars...) {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
