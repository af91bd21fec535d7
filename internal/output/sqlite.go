/*
PURPOSE:
  Persists merged schedule records into an embedded SQLite database.
  Each run appends a row to `runs` and its records to `schedules`.

REQUIREMENTS:
  User-specified:
  - Optional sink; the combined JSON file stays the primary output.

  Implementation-discovered:
  - Records are stored as JSON text so SQLite's json_* functions work on them.
  - Keeping every run (keyed by run_id) makes it possible to diff runs later.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (when sqlite_path is set)
  - Consumes: internal/model.Result

ERROR HANDLING:
  - Returns wrapped errors; a failed run is rolled back as a whole.

IMPLEMENTATION RULES:
  - Driver: github.com/ncruces/go-sqlite3 (pure Go via wazero, no cgo).
  - One transaction per run.

USAGE:
  db, err := output.OpenSQLite("schedules.db")
  defer db.Close()
  err = db.WriteRun(ctx, result)

SELF-HEALING INSTRUCTIONS:
  - If "sqlite3" driver is unknown, the driver/embed imports were dropped.

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - Bump schema with CREATE ... IF NOT EXISTS only; no migrations yet.
*/

package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/daryltucker/busmerge/internal/model"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	source_dir TEXT NOT NULL,
	files INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	records INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schedules (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	source TEXT NOT NULL,
	record TEXT NOT NULL,  -- JSON
	PRIMARY KEY (run_id, seq),
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_schedules_source ON schedules(source);
`

// SQLiteDB wraps the database connection used by the SQLite sink.
type SQLiteDB struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
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

	db := &SQLiteDB{conn: conn, path: path}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// WriteRun stores one merge run and all of its records.
func (db *SQLiteDB) WriteRun(ctx context.Context, res *model.Result) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, source_dir, files, skipped, records) VALUES (?, ?, ?, ?, ?, ?)`,
		res.RunID, res.StartedAt.UTC().Format(time.RFC3339Nano), res.SourceDir,
		len(res.Sources), res.SkippedCount(), len(res.Records),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", res.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO schedules (run_id, seq, source, record) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	// Records are flattened in Sources order, so walk both together.
	seq := 0
	for _, src := range res.Sources {
		for i := 0; i < src.Records; i++ {
			if seq >= len(res.Records) {
				return fmt.Errorf("source %s reports more records than the run holds", src.File)
			}
			if _, err := stmt.ExecContext(ctx, res.RunID, seq, src.File, string(res.Records[seq])); err != nil {
				return fmt.Errorf("failed to insert record %d: %w", seq, err)
			}
			seq++
		}
	}

	return tx.Commit()
}

// Close closes the database connection.
func (db *SQLiteDB) Close() error {
	if db.conn == nil {
		return nil
	}
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.conn = nil
	return nil
}
