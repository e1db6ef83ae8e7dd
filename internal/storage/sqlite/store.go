package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultPath = "data/transport.db"
)

// ErrMissing is returned by OpenExisting when the database file is absent.
var ErrMissing = errors.New("database file missing")

// Store wraps a SQLite DB connection.
type Store struct {
	path string
	db   *sql.DB
}

// Script is one SQL text executed verbatim, named for error messages.
type Script struct {
	Name string
	SQL  string
}

// Object is a schema object listed from sqlite_master.
type Object struct {
	Name string
	Type string
}

// Open creates (if needed) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

// OpenExisting opens a database that must already exist. It never creates the
// file and leaves the journal mode alone.
func OpenExisting(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat sqlite: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open sqlite: %s is a directory", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ExecScripts runs each script in order on a single connection, so scripts
// carrying their own BEGIN/COMMIT behave as they would in the sqlite3 shell.
func (s *Store) ExecScripts(ctx context.Context, scripts ...Script) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store not initialized")
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Close()

	for _, script := range scripts {
		if strings.TrimSpace(script.SQL) == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx, script.SQL); err != nil {
			return fmt.Errorf("exec %s: %w", script.Name, err)
		}
	}
	return nil
}

// Objects lists user tables and views ordered by name. Internal sqlite_*
// tables, indexes and triggers are left out.
func (s *Store) Objects(ctx context.Context) ([]Object, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT name, type FROM sqlite_master
WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("query sqlite_master: %w", err)
	}
	defer rows.Close()

	var out []Object
	for rows.Next() {
		var o Object
		if err := rows.Scan(&o.Name, &o.Type); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
