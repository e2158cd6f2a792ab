// Package dataset reads and writes registration datasets on disk.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// Supported file formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// FormatOf returns the dataset format implied by the file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ReadFile loads all records from path.
func ReadFile(path string) ([]models.RegistrationRecord, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Decode(format, data)
}

// Decode parses data in the given format.
func Decode(format string, data []byte) ([]models.RegistrationRecord, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(data)
	case FormatJSON:
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// WriteFile stores records at path, replacing any existing file atomically.
func WriteFile(path string, records []models.RegistrationRecord) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatCSV:
		data, err = encodeCSV(records)
	default:
		data, err = encodeJSON(records)
	}
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close dataset: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace dataset: %w", err)
	}
	return nil
}
