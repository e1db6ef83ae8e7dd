package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"TRANSIT_ROOT", "SQLITE_PATH", "REDIS_ADDR", "KAFKA_BROKERS", "TRANSIT_PATH_CACHE_TTL", "TRANSIT_LIFECYCLE_TOPIC", "TRANSIT_WATCH_GROUP"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/transport.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.PathCacheTTL)
	assert.Equal(t, "transit.db.lifecycle", cfg.LifecycleTopic)
	assert.Equal(t, "transit-cache-invalidator", cfg.WatchGroup)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.EventsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SQLITE_PATH", "/var/lib/transit/t.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("TRANSIT_PATH_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/transit/t.db", cfg.Database())
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 90*time.Second, cfg.PathCacheTTL)
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.EventsEnabled())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRANSIT_PATH_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestResolveAgainstRoot(t *testing.T) {
	root := t.TempDir()
	cfg := Config{
		Root:           root,
		DBPath:         "data/transport.db",
		SchemaPath:     "data/schema.sql",
		StopsSeedPath:  "data/seed/stops_seed.sql",
		RoutesSeedPath: "data/seed/routes_seed.sql",
	}

	assert.Equal(t, filepath.Join(root, "data", "transport.db"), cfg.Database())
	assert.Equal(t, []string{
		filepath.Join(root, "data", "schema.sql"),
		filepath.Join(root, "data", "seed", "stops_seed.sql"),
		filepath.Join(root, "data", "seed", "routes_seed.sql"),
	}, cfg.Inputs())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (testing.T.Chdir equivalent for go1.21).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
