// Package query loads registrations, runs the metrics engine and shapes the
// resulting payload for the dashboard and the HTTP API.
package query

import (
	"context"
	"fmt"

	"github.com/j-veylop/vahan-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// Source provides the full set of registration records.
type Source interface {
	AllRegistrations(ctx context.Context) ([]models.RegistrationRecord, error)
}

// Records is an in-memory Source.
type Records []models.RegistrationRecord

// AllRegistrations implements Source.
func (r Records) AllRegistrations(context.Context) ([]models.RegistrationRecord, error) {
	return r, nil
}

// Facade computes dashboard payloads from a Source.
type Facade struct {
	source Source
}

// New creates a Facade reading from source.
func New(source Source) *Facade {
	return &Facade{source: source}
}

// Payload reads every record once and computes the payload.
// Engine errors are returned unwrapped so callers can detect
// metrics.InvalidInputError.
func (f *Facade) Payload(ctx context.Context) (*models.DashboardPayload, error) {
	records, err := f.source.AllRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}
	return metrics.Compute(records)
}
