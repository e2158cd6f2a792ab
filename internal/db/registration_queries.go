package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// ReplaceRegistrations swaps the stored dataset for records in a single
// transaction and records run alongside it. Readers never observe a
// partially imported dataset.
func (db *DB) ReplaceRegistrations(ctx context.Context, records []models.RegistrationRecord, run *models.ImportRun) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+tableRegistrations); err != nil {
		return fmt.Errorf("failed to clear registrations: %w", err)
	}

	var importID any
	if run != nil {
		if err := insertImportRun(ctx, tx, run); err != nil {
			return err
		}
		importID = run.ID
	}

	for start := 0; start < len(records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(records))

		query := builder().Insert(tableRegistrations).
			Columns(append(registrationColumns, "import_id")...)
		for _, rec := range records[start:end] {
			query = query.Values(rec.Date, rec.VehicleType, rec.Manufacturer, rec.Count, importID)
		}

		sqlStr, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("failed to insert registrations: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// ListRegistrations returns stored rows matching filter, oldest first.
// Dates are stored as read, so range bounds compare the day prefix only.
func (db *DB) ListRegistrations(ctx context.Context, filter models.RecordFilter) ([]models.RegistrationRecord, error) {
	query := builder().Select(registrationColumns...).
		From(tableRegistrations).
		OrderBy("date", "vehicle_type", "manufacturer", "id")

	if !filter.From.IsZero() {
		query = query.Where(sq.GtOrEq{dayColumn: filter.From.Format(models.DateLayout)})
	}
	if !filter.To.IsZero() {
		query = query.Where(sq.LtOrEq{dayColumn: filter.To.Format(models.DateLayout)})
	}
	if filter.VehicleType != "" {
		codes := []string{strings.ToLower(strings.TrimSpace(filter.VehicleType))}
		if vt, ok := models.ParseVehicleType(filter.VehicleType); ok {
			codes = vt.Aliases()
		}
		query = query.Where(sq.Eq{"LOWER(TRIM(vehicle_type))": codes})
	}
	if filter.Manufacturer != "" {
		query = query.Where(sq.Eq{"manufacturer": filter.Manufacturer})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registration query: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]models.RegistrationRecord, 0)
	for rows.Next() {
		var rec models.RegistrationRecord
		if err := rows.Scan(&rec.Date, &rec.VehicleType, &rec.Manufacturer, &rec.Count); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// AllRegistrations returns every stored row.
func (db *DB) AllRegistrations(ctx context.Context) ([]models.RegistrationRecord, error) {
	return db.ListRegistrations(ctx, models.RecordFilter{})
}

// Summary describes the stored dataset.
func (db *DB) Summary(ctx context.Context) (*models.DatasetSummary, error) {
	query := builder().Select(
		"COUNT(*)",
		"COALESCE(SUM(count), 0)",
		"MIN("+dayColumn+")",
		"MAX("+dayColumn+")",
		"COUNT(DISTINCT SUBSTR(date, 1, 7))",
		"COUNT(DISTINCT manufacturer)",
	).From(tableRegistrations)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build summary query: %w", err)
	}

	var summary models.DatasetSummary
	var first, last sql.NullString
	err = db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&summary.Rows,
		&summary.Registrations,
		&first,
		&last,
		&summary.Months,
		&summary.Manufacturers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset summary: %w", err)
	}

	summary.FirstDate = first.String
	summary.LastDate = last.String
	return &summary, nil
}
