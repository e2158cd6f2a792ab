package models

import "time"

// RegistrationRecord is one row of the source dataset.
// Fields are kept raw; validation happens when the record is aggregated.
type RegistrationRecord struct {
	Date         string `json:"date"`
	VehicleType  string `json:"vehicleType"`
	Manufacturer string `json:"manufacturer"`
	Count        int64  `json:"count"`
}

// RecordFilter narrows a registration listing. Zero values mean "no filter".
type RecordFilter struct {
	From         time.Time
	To           time.Time
	VehicleType  string
	Manufacturer string
	Limit        int
}

// ImportRun describes one dataset import into the store.
type ImportRun struct {
	ID            string
	Source        string
	Checksum      string
	RecordCount   int
	Registrations int64
	ImportedAt    time.Time
}

// DatasetSummary describes the registrations currently held in the store.
type DatasetSummary struct {
	Rows          int
	Registrations int64
	FirstDate     string
	LastDate      string
	Months        int
	Manufacturers int
}

// HasData returns true if the store holds at least one row.
func (s *DatasetSummary) HasData() bool {
	return s != nil && s.Rows > 0
}
