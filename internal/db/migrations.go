package db

import (
	"context"
	"database/sql"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (db *DB) createSchema() error {
	if err := db.createImportRunsTable(); err != nil {
		return err
	}
	return db.createRegistrationsTable()
}

func (db *DB) createImportRunsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS import_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		checksum TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		registrations INTEGER NOT NULL DEFAULT 0,
		imported_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_import_runs_imported_at ON import_runs(imported_at);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// createRegistrationsTable stores dataset rows as read; values are
// validated when aggregated, not on insert.
func (db *DB) createRegistrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		vehicle_type TEXT NOT NULL,
		manufacturer TEXT NOT NULL DEFAULT '',
		count INTEGER NOT NULL DEFAULT 0,
		import_id TEXT REFERENCES import_runs(id) ON DELETE SET NULL
	);
	CREATE INDEX IF NOT EXISTS idx_registrations_date ON registrations(date);
	CREATE INDEX IF NOT EXISTS idx_registrations_manufacturer ON registrations(manufacturer, date);
	CREATE INDEX IF NOT EXISTS idx_registrations_vehicle_type ON registrations(vehicle_type, date);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}
