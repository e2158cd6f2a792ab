package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// csvHeader is the column order written by encodeCSV.
var csvHeader = []string{"date", "vehicle_type", "manufacturer", "count"}

// headerAliases maps accepted column names to record fields.
var headerAliases = map[string]string{
	"date":          "date",
	"vehicle_type":  "vehicleType",
	"vehicletype":   "vehicleType",
	"type":          "vehicleType",
	"manufacturer":  "manufacturer",
	"maker":         "manufacturer",
	"count":         "count",
	"registrations": "count",
}

// ErrMissingColumn is returned when a CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

func decodeCSV(data []byte) ([]models.RegistrationRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []models.RegistrationRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if field, ok := headerAliases[name]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	for _, field := range []string{"date", "vehicleType", "manufacturer", "count"} {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
	}

	records := make([]models.RegistrationRecord, 0)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		line, _ := r.FieldPos(0)
		countText := strings.TrimSpace(row[cols["count"]])
		count, err := strconv.ParseInt(countText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid count %q: %w", line, countText, err)
		}

		records = append(records, models.RegistrationRecord{
			Date:         strings.TrimSpace(row[cols["date"]]),
			VehicleType:  strings.TrimSpace(row[cols["vehicleType"]]),
			Manufacturer: strings.TrimSpace(row[cols["manufacturer"]]),
			Count:        count,
		})
	}
	return records, nil
}

func encodeCSV(records []models.RegistrationRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Date, rec.VehicleType, rec.Manufacturer, strconv.FormatInt(rec.Count, 10)}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
