package db

import (
	"context"
	"testing"
	"time"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

func TestLatestImportRun_None(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	run, err := db.LatestImportRun(context.Background())
	if err != nil {
		t.Fatalf("LatestImportRun failed: %v", err)
	}
	if run != nil {
		t.Errorf("expected no run, got %+v", run)
	}

	checksum, err := db.LatestChecksum(context.Background(), "data.csv")
	if err != nil {
		t.Fatalf("LatestChecksum failed: %v", err)
	}
	if checksum != "" {
		t.Errorf("expected empty checksum, got %q", checksum)
	}
}

func TestImportRuns(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	runs := []models.ImportRun{
		{ID: "a", Source: "data.csv", Checksum: "111", RecordCount: 1, Registrations: 10, ImportedAt: base},
		{ID: "b", Source: "other.json", Checksum: "222", RecordCount: 2, Registrations: 20, ImportedAt: base.Add(time.Minute)},
		{ID: "c", Source: "data.csv", Checksum: "333", RecordCount: 3, Registrations: 30, ImportedAt: base.Add(time.Minute)},
	}
	for i := range runs {
		recs := []models.RegistrationRecord{{Date: "2024-05-01", VehicleType: "2W", Manufacturer: "Honda", Count: 1}}
		if err := db.ReplaceRegistrations(ctx, recs, &runs[i]); err != nil {
			t.Fatalf("ReplaceRegistrations failed: %v", err)
		}
	}

	latest, err := db.LatestImportRun(ctx)
	if err != nil {
		t.Fatalf("LatestImportRun failed: %v", err)
	}
	if latest == nil || latest.ID != "c" {
		t.Fatalf("expected run c, got %+v", latest)
	}
	if !latest.ImportedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("unexpected imported_at %v", latest.ImportedAt)
	}
	if latest.RecordCount != 3 || latest.Registrations != 30 {
		t.Errorf("unexpected counts %+v", latest)
	}

	all, err := db.ImportRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ImportRuns failed: %v", err)
	}
	if len(all) != 3 || all[2].ID != "a" {
		t.Errorf("unexpected run order %+v", all)
	}

	checksum, err := db.LatestChecksum(ctx, "data.csv")
	if err != nil {
		t.Fatalf("LatestChecksum failed: %v", err)
	}
	if checksum != "333" {
		t.Errorf("expected checksum 333, got %q", checksum)
	}

	checksum, _ = db.LatestChecksum(ctx, "other.json")
	if checksum != "222" {
		t.Errorf("expected checksum 222, got %q", checksum)
	}
}
