// Package local provides the on-device SQLite store for nutrimirror.
//
// This is the fast, synchronously-queryable half of the hybrid
// local/remote storage: the product catalog cache, the consumption
// diary, daily progress snapshots, and the favorite-product set all
// live here. The sync layer decides when rows are written back from
// the remote store; this package only knows how to query and upsert.
//
// The database runs embedded (ncruces/go-sqlite3) with WAL for
// concurrent readers during writes.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"database/sql"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB wraps the SQLite connection with nutrimirror-specific queries.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates a database connection at the specified path.
//
// The database is opened in embedded mode with WAL for concurrent
// reads. If it doesn't exist it is created; call InitSchema before
// first use. The caller MUST call Close when done.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn, path: path}

	// WAL lets the UI thread read while a background write-back runs.
	if _, err := db.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// RawDB returns the underlying sql.DB connection.
func (db *DB) RawDB() *sql.DB {
	return db.conn
}

// Close closes the database connection after checkpointing the WAL.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}

	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	db.conn = nil
	return nil
}

// InitSchema creates the schema if it doesn't exist. Idempotent.
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT NOT NULL DEFAULT '',
		manufacturer TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		weight REAL NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT '',
		thumb_url TEXT NOT NULL DEFAULT '',
		energy_kcal REAL NOT NULL DEFAULT -1,
		protein REAL NOT NULL DEFAULT -1,
		fat REAL NOT NULL DEFAULT -1,
		carbs REAL NOT NULL DEFAULT -1,
		sugar REAL NOT NULL DEFAULT -1,
		salt REAL NOT NULL DEFAULT -1,
		ingredients TEXT NOT NULL DEFAULT '[]',  -- JSON array
		allergens TEXT NOT NULL DEFAULT '[]',    -- JSON array
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS diary (
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		date TEXT NOT NULL,  -- YYYY-MM-DD
		weight REAL NOT NULL,
		product_name TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, product_id, date)
	);

	CREATE TABLE IF NOT EXISTS progress (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,  -- YYYY-MM-DD
		calories INTEGER NOT NULL DEFAULT 0,
		protein INTEGER NOT NULL DEFAULT 0,
		fat INTEGER NOT NULL DEFAULT 0,
		carbs INTEGER NOT NULL DEFAULT 0,
		sugar INTEGER NOT NULL DEFAULT 0,
		salt INTEGER NOT NULL DEFAULT 0,
		violations INTEGER NOT NULL DEFAULT 0,
		violated_tags TEXT NOT NULL DEFAULT '[]',  -- JSON array
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS favorites (
		product_id TEXT PRIMARY KEY
	);

	-- Alphabetic catalog listing pages by name
	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);

	-- Denormalized per-(user, date) index for diary range scans
	CREATE INDEX IF NOT EXISTS idx_diary_user_date ON diary(user_id, date);
	`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}
