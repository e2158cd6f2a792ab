package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

func insertImportRun(ctx context.Context, ex execer, run *models.ImportRun) error {
	importedAt := run.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now()
	}

	sqlStr, args, err := builder().Insert(tableImportRuns).
		Columns(importRunColumns...).
		Values(run.ID, run.Source, run.Checksum, run.RecordCount, run.Registrations,
			importedAt.UTC().Format(timestampLayout)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build import run insert: %w", err)
	}

	if _, err := ex.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to insert import run: %w", err)
	}
	return nil
}

// LatestImportRun returns the most recent import, or nil if none exists.
func (db *DB) LatestImportRun(ctx context.Context) (*models.ImportRun, error) {
	runs, err := db.ImportRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// LatestChecksum returns the checksum of the most recent import of source.
func (db *DB) LatestChecksum(ctx context.Context, source string) (string, error) {
	sqlStr, args, err := builder().Select("checksum").
		From(tableImportRuns).
		Where("source = ?", source).
		OrderBy("imported_at DESC", "rowid DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build checksum query: %w", err)
	}

	var checksum string
	err = db.QueryRowContext(ctx, sqlStr, args...).Scan(&checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query checksum: %w", err)
	}
	return checksum, nil
}

// ImportRuns returns up to limit imports, newest first.
func (db *DB) ImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	query := builder().Select(importRunColumns...).
		From(tableImportRuns).
		OrderBy("imported_at DESC", "rowid DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build import run query: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		var importedAt string
		if err := rows.Scan(&run.ID, &run.Source, &run.Checksum, &run.RecordCount, &run.Registrations, &importedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		if t, err := time.ParseInLocation(timestampLayout, importedAt, time.UTC); err == nil {
			run.ImportedAt = t
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
