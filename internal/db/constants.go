package db

import "github.com/Masterminds/squirrel"

// Table names.
const (
	tableRegistrations = "registrations"
	tableImportRuns    = "import_runs"
)

// dayColumn is the "YYYY-MM-DD" prefix of a stored date.
const dayColumn = "SUBSTR(date, 1, 10)"

// timestampLayout is how import times are stored.
const timestampLayout = "2006-01-02 15:04:05"

// insertBatchSize bounds the rows per INSERT so a statement stays well under
// SQLite's host parameter limit.
const insertBatchSize = 500

var (
	registrationColumns = []string{"date", "vehicle_type", "manufacturer", "count"}
	importRunColumns    = []string{"id", "source", "checksum", "record_count", "registrations", "imported_at"}
)

// builder returns the statement builder for SQLite's "?" placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}
