package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/urbantransit/data"
	"github.com/hetulpatel/urbantransit/internal/storage/sqlite"
)

// writeInputs copies the shipped schema and seeds under root/data and returns
// a plan pointing at them.
func writeInputs(t *testing.T, root string) Plan {
	t.Helper()
	plan := Plan{DBPath: filepath.Join(root, "data", "transport.db")}
	for _, name := range data.Files {
		body, err := data.FS.ReadFile(name)
		require.NoError(t, err)
		dst := filepath.Join(root, "data", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
		require.NoError(t, os.WriteFile(dst, body, 0o644))
		plan.Scripts = append(plan.Scripts, dst)
	}
	return plan
}

func objectNames(objs []sqlite.Object) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.Type+": "+o.Name)
	}
	return out
}

var wantObjects = []string{
	"table: route_stops",
	"view: route_summary",
	"table: routes",
	"table: stops",
	"table: trip_stops",
	"table: trips",
}

func TestInitializeCreatesDatabase(t *testing.T) {
	plan := writeInputs(t, t.TempDir())

	res, err := Initialize(context.Background(), plan)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(res.Path))
	assert.Equal(t, plan.DBPath, res.Path)
	assert.Len(t, res.Checksum, 64)
	assert.Equal(t, wantObjects, objectNames(res.Objects))
	assert.FileExists(t, res.Path)
}

func TestInitializeIsIdempotent(t *testing.T) {
	plan := writeInputs(t, t.TempDir())
	ctx := context.Background()

	first, err := Initialize(ctx, plan)
	require.NoError(t, err)
	second, err := Initialize(ctx, plan)
	require.NoError(t, err)

	assert.Equal(t, first.Checksum, second.Checksum)
	assert.Equal(t, objectNames(first.Objects), objectNames(second.Objects))

	objs, err := Inspect(ctx, plan.DBPath)
	require.NoError(t, err)
	assert.Equal(t, wantObjects, objectNames(objs))
}

func TestInitializeMissingSeedLeavesNoDatabase(t *testing.T) {
	plan := writeInputs(t, t.TempDir())
	ctx := context.Background()

	_, err := Initialize(ctx, plan)
	require.NoError(t, err)
	require.FileExists(t, plan.DBPath)

	require.NoError(t, os.Remove(plan.Scripts[2]))
	_, err = Initialize(ctx, plan)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Contains(t, err.Error(), "routes_seed.sql")
	assert.Equal(t, ExitMissingInput, ExitCode(err))
	assert.NoFileExists(t, plan.DBPath)
}

func TestInitializeMissingSchema(t *testing.T) {
	plan := writeInputs(t, t.TempDir())
	require.NoError(t, os.Remove(plan.Scripts[0]))

	_, err := Initialize(context.Background(), plan)

	assert.Equal(t, ExitMissingInput, ExitCode(err))
	assert.Contains(t, err.Error(), "schema.sql")
	assert.NoFileExists(t, plan.DBPath)
}

func TestInitializeExecutionFailureCleansUp(t *testing.T) {
	plan := writeInputs(t, t.TempDir())
	require.NoError(t, os.WriteFile(plan.Scripts[1], []byte("INSERT INTO nowhere VALUES (1);"), 0o644))

	_, err := Initialize(context.Background(), plan)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecute))
	assert.Equal(t, ExitExecute, ExitCode(err))
	assert.Contains(t, err.Error(), "stops_seed.sql")
	assert.NoFileExists(t, plan.DBPath)
	for _, suffix := range sidecars {
		assert.NoFileExists(t, plan.DBPath+suffix)
	}
}

func TestInitializeUnreadableInput(t *testing.T) {
	plan := writeInputs(t, t.TempDir())
	// The routes seed exists but is a directory, so reading it fails.
	require.NoError(t, os.Remove(plan.Scripts[2]))
	require.NoError(t, os.MkdirAll(plan.Scripts[2], 0o755))

	_, err := Initialize(context.Background(), plan)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecute))
	assert.False(t, errors.Is(err, ErrMissingInput))
	assert.Equal(t, ExitExecute, ExitCode(err))
	assert.Contains(t, err.Error(), "routes_seed.sql")
	assert.NoFileExists(t, plan.DBPath)
}

func TestInitializeDataDirBlocked(t *testing.T) {
	root := t.TempDir()
	plan := writeInputs(t, root)
	// A regular file where the database's parent directory should be.
	blocker := filepath.Join(root, "blocked")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	plan.DBPath = filepath.Join(blocker, "transport.db")

	_, err := Initialize(context.Background(), plan)

	require.Error(t, err)
	assert.Equal(t, ExitExecute, ExitCode(err))
	assert.Contains(t, err.Error(), "ensure data dir")
}

func TestInitializeCannotRemoveExisting(t *testing.T) {
	plan := writeInputs(t, t.TempDir())
	// A non-empty directory at the database path cannot be unlinked.
	require.NoError(t, os.MkdirAll(filepath.Join(plan.DBPath, "occupied"), 0o755))

	_, err := Initialize(context.Background(), plan)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoveExisting))
	assert.Equal(t, ExitRemoveExisting, ExitCode(err))
}

func TestInspectMissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "transport.db")

	_, err := Inspect(context.Background(), path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDatabase))
	assert.Equal(t, ExitMissingDB, ExitCode(err))
	assert.NoFileExists(t, path)
}

func TestInspectEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	objs, err := Inspect(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, objs)

	var buf bytes.Buffer
	require.NoError(t, WriteObjects(&buf, objs))
	assert.Equal(t, "NO_TABLES\n", buf.String())
}

func TestWriteObjects(t *testing.T) {
	var buf bytes.Buffer
	err := WriteObjects(&buf, []sqlite.Object{
		{Name: "route_summary", Type: "view"},
		{Name: "stops", Type: "table"},
	})
	require.NoError(t, err)
	assert.Equal(t, "view: route_summary\ntable: stops\n", buf.String())
}

func TestExitCodeDefaults(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("other")))
}
