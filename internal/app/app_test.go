package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vahan-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/services"
)

type fakeServices struct {
	records []models.RegistrationRecord
	err     error
	forced  []bool
	ch      chan services.ServiceEvent
}

func (f *fakeServices) Reload(_ context.Context, force bool) (*models.DashboardPayload, error) {
	f.forced = append(f.forced, force)
	if f.err != nil {
		return nil, f.err
	}
	return metrics.Compute(f.records)
}

func (f *fakeServices) Summary() *models.DatasetSummary {
	return &models.DatasetSummary{Rows: len(f.records)}
}

func (f *fakeServices) LatestImportRun(context.Context) (*models.ImportRun, error) {
	return &models.ImportRun{ID: "run-1", RecordCount: len(f.records)}, nil
}

func (f *fakeServices) Subscribe() (chan services.ServiceEvent, tea.Cmd) {
	if f.ch == nil {
		f.ch = make(chan services.ServiceEvent, 10)
	}
	return f.ch, nil
}

var errBoom = errors.New("boom")

func sampleRecords() []models.RegistrationRecord {
	return []models.RegistrationRecord{
		{Date: "2023-01-10", VehicleType: "2W", Manufacturer: "Honda", Count: 100},
		{Date: "2023-02-10", VehicleType: "4W", Manufacturer: "Kia", Count: 40},
		{Date: "2024-01-10", VehicleType: "2W", Manufacturer: "Honda", Count: 120},
		{Date: "2024-01-15", VehicleType: "3W", Manufacturer: "Bajaj", Count: 10},
	}
}

func samplePayload() *models.DashboardPayload {
	p, err := metrics.Compute(sampleRecords())
	if err != nil {
		panic(err)
	}
	return p
}
