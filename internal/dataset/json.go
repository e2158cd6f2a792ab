package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// jsonFile is the object form of a JSON dataset.
type jsonFile struct {
	Records []models.RegistrationRecord `json:"records"`
}

func decodeJSON(data []byte) ([]models.RegistrationRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.RegistrationRecord{}, nil
	}

	var records []models.RegistrationRecord
	if trimmed[0] == '{' {
		var file jsonFile
		if err := json.Unmarshal(trimmed, &file); err != nil {
			return nil, fmt.Errorf("failed to parse dataset: %w", err)
		}
		records = file.Records
	} else if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	if records == nil {
		records = []models.RegistrationRecord{}
	}
	return records, nil
}

func encodeJSON(records []models.RegistrationRecord) ([]byte, error) {
	if records == nil {
		records = []models.RegistrationRecord{}
	}
	data, err := json.MarshalIndent(jsonFile{Records: records}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dataset: %w", err)
	}
	return append(data, '\n'), nil
}
