package query

import (
	"context"
	"errors"
	"reflect"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/vahan-dashboard-tui/internal/db"
	"github.com/j-veylop/vahan-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

type failingSource struct{ err error }

func (f failingSource) AllRegistrations(context.Context) ([]models.RegistrationRecord, error) {
	return nil, f.err
}

type countingSource struct {
	Records
	calls int
}

func (c *countingSource) AllRegistrations(ctx context.Context) ([]models.RegistrationRecord, error) {
	c.calls++
	return c.Records.AllRegistrations(ctx)
}

// threeYears returns 36 months of data from 2022-01 with two 4W makers and
// a 2W maker that starts in 2024.
func threeYears() Records {
	var out Records
	start := models.Period{Year: 2022, Month: time.January}
	for i := range 36 {
		date := start.AddMonths(i).DateString()
		out = append(out,
			models.RegistrationRecord{Date: date, VehicleType: "4W", Manufacturer: "Kia", Count: 100 + int64(i)},
			models.RegistrationRecord{Date: date, VehicleType: "4W", Manufacturer: "Tata Motors", Count: 50},
		)
		if i >= 24 {
			out = append(out, models.RegistrationRecord{Date: date, VehicleType: "2W", Manufacturer: "Hero MotoCorp", Count: 10})
		}
	}
	return out
}

func payloadFor(t *testing.T, records Records) *models.DashboardPayload {
	t.Helper()
	p, err := New(records).Payload(context.Background())
	if err != nil {
		t.Fatalf("Payload failed: %v", err)
	}
	return p
}

func TestFacade_Payload(t *testing.T) {
	src := &countingSource{Records: threeYears()}
	p, err := New(src).Payload(context.Background())
	if err != nil {
		t.Fatalf("Payload failed: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("expected one read, got %d", src.calls)
	}
	if len(p.VehicleTypeData) != 36 {
		t.Errorf("expected 36 buckets, got %d", len(p.VehicleTypeData))
	}
}

func TestFacade_Errors(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := New(failingSource{err: boom}).Payload(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected source error, got %v", err)
	}

	bad := Records{{Date: "2024-01-01", VehicleType: "2W", Manufacturer: "Hero", Count: -5}}
	_, err = New(bad).Payload(context.Background())
	var invalid *metrics.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestFacade_StoredMalformedDates(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{"GarbageTime", "2024-01-15Tgarbage"},
		{"GarbageSuffix", "2024-01-15 not-a-time"},
		{"NotADate", "15/01/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := db.New(filepath.Join(t.TempDir(), "test.db"))
			if err != nil {
				t.Fatalf("Failed to create database: %v", err)
			}
			defer store.Close()

			records := []models.RegistrationRecord{
				{Date: "2024-01-01", VehicleType: "2W", Manufacturer: "Hero MotoCorp", Count: 10},
				{Date: tt.date, VehicleType: "2W", Manufacturer: "Hero MotoCorp", Count: 10},
			}
			if err := store.ReplaceRegistrations(context.Background(), records, nil); err != nil {
				t.Fatalf("ReplaceRegistrations failed: %v", err)
			}

			_, err = New(store).Payload(context.Background())
			var invalid *metrics.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if invalid.Field != "date" || invalid.Value != tt.date {
				t.Errorf("unexpected error %+v", invalid)
			}
		})
	}
}

func TestFilter_Ranges(t *testing.T) {
	p := payloadFor(t, threeYears())

	tests := []struct {
		name      string
		sel       Selection
		wantFirst string
		wantLen   int
	}{
		{"LastYear", Selection{Range: models.DateRangeLastYear}, "2024-01-01", 12},
		{"Last2Years", Selection{Range: models.DateRangeLast2Years}, "2023-01-01", 24},
		{"Last3Years", Selection{Range: models.DateRangeLast3Years}, "2022-01-01", 36},
		{"AllTime", Selection{Range: models.DateRangeAllTime}, "2022-01-01", 36},
		{"Explicit", Selection{
			From: &models.Period{Year: 2023, Month: time.March},
			To:   &models.Period{Year: 2023, Month: time.May},
		}, "2023-03-01", 3},
		{"OpenEnded", Selection{From: &models.Period{Year: 2024, Month: time.November}}, "2024-11-01", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(p, tt.sel)
			if len(got.VehicleTypeData) != tt.wantLen {
				t.Fatalf("expected %d buckets, got %d", tt.wantLen, len(got.VehicleTypeData))
			}
			if got.VehicleTypeData[0].Date != tt.wantFirst {
				t.Errorf("expected first bucket %s, got %s", tt.wantFirst, got.VehicleTypeData[0].Date)
			}
			if got.TotalRegistrations != p.TotalRegistrations {
				t.Error("totals must not change when filtering")
			}
			if !reflect.DeepEqual(got.TotalYoYGrowth, p.TotalYoYGrowth) {
				t.Error("total growth must not change when filtering")
			}
		})
	}
}

func TestFilter_Manufacturer(t *testing.T) {
	p := payloadFor(t, threeYears())

	got := Filter(p, Selection{Range: models.DateRangeAllTime, Manufacturer: "Hero MotoCorp"})
	if len(got.ManufacturerData) != 12 {
		t.Fatalf("expected 12 Hero rows, got %d", len(got.ManufacturerData))
	}
	for _, row := range got.ManufacturerData {
		if row.Manufacturer != "Hero MotoCorp" {
			t.Errorf("unexpected manufacturer %s", row.Manufacturer)
		}
	}
	if len(got.VehicleTypeData) != 36 {
		t.Error("manufacturer selection must not filter the vehicle series")
	}
}

func TestFilter_Empty(t *testing.T) {
	got := Filter(nil, DefaultSelection())
	if got.VehicleTypeData == nil || got.ManufacturerData == nil {
		t.Error("expected non-nil series")
	}

	got = Filter(models.EmptyPayload(), DefaultSelection())
	if !got.IsEmpty() {
		t.Error("expected empty payload")
	}
}

func TestSummarize(t *testing.T) {
	p := payloadFor(t, threeYears())

	t.Run("AllManufacturers", func(t *testing.T) {
		s := Summarize(p, Selection{Range: models.DateRangeLastYear, Series: models.SeriesFourWheeler})

		if s.Manufacturer != AllManufacturers {
			t.Errorf("expected %s, got %s", AllManufacturers, s.Manufacturer)
		}
		if s.Latest == nil || s.Latest.Date != "2024-12-01" {
			t.Fatalf("unexpected latest bucket %+v", s.Latest)
		}
		if s.SeriesLatest != 135+50 {
			t.Errorf("expected 185 4W registrations, got %d", s.SeriesLatest)
		}
		if s.Months != 12 {
			t.Errorf("expected 12 months, got %d", s.Months)
		}

		// Kia 124..135, Tata 50 each, Hero 10 each over 2024.
		var want int64 = 12*50 + 12*10
		for i := int64(124); i <= 135; i++ {
			want += i
		}
		if s.TopRegistrations != want {
			t.Errorf("expected top registrations %d, got %d", want, s.TopRegistrations)
		}
		if s.ManufacturerYoY != nil {
			t.Error("no manufacturer growth for All")
		}
	})

	t.Run("SingleManufacturer", func(t *testing.T) {
		s := Summarize(p, Selection{Range: models.DateRangeLast2Years, Manufacturer: "Kia"})

		if s.TopRegistrations != 135 {
			t.Errorf("expected latest Kia month 135, got %d", s.TopRegistrations)
		}
		if s.ManufacturerYoY == nil {
			t.Fatal("expected Kia YoY growth")
		}
		want := (135.0 - 123.0) / 123.0 * 100
		if diff := *s.ManufacturerYoY - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("expected YoY %.4f, got %.4f", want, *s.ManufacturerYoY)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		s := Summarize(models.EmptyPayload(), DefaultSelection())
		if s.Latest != nil || s.TopRegistrations != 0 || s.Months != 0 {
			t.Errorf("unexpected summary %+v", s)
		}
	})
}

func TestManufacturerNames(t *testing.T) {
	p := payloadFor(t, threeYears())
	want := []string{"Hero MotoCorp", "Kia", "Tata Motors"}
	if got := ManufacturerNames(p); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := ManufacturerNames(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestChartValues(t *testing.T) {
	rows := []models.VehicleTypeAggregate{
		{TwoWheeler: 1, ThreeWheeler: 2, FourWheeler: 3, Total: 6},
		{TwoWheeler: 4, ThreeWheeler: 5, FourWheeler: 6, Total: 15},
	}

	tests := []struct {
		series models.VehicleSeries
		want   []float64
	}{
		{models.SeriesTotal, []float64{6, 15}},
		{models.SeriesTwoWheeler, []float64{1, 4}},
		{models.SeriesThreeWheeler, []float64{2, 5}},
		{models.SeriesFourWheeler, []float64{3, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.series.String(), func(t *testing.T) {
			if got := SeriesValues(rows, tt.series); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	makers := []models.ManufacturerAggregate{{Registrations: 7}, {Registrations: 9}}
	if got := ManufacturerValues(makers); !reflect.DeepEqual(got, []float64{7, 9}) {
		t.Errorf("unexpected manufacturer values %v", got)
	}
}

func TestManufacturerTotals(t *testing.T) {
	rows := []models.ManufacturerAggregate{
		{Manufacturer: "Kia", Registrations: 10},
		{Manufacturer: "Tata Motors", Registrations: 30},
		{Manufacturer: "Kia", Registrations: 20},
		{Manufacturer: "Honda", Registrations: 30},
	}

	want := []ManufacturerTotal{
		{Name: "Honda", Registrations: 30},
		{Name: "Kia", Registrations: 30},
		{Name: "Tata Motors", Registrations: 30},
	}
	if got := ManufacturerTotals(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSeriesGrowth(t *testing.T) {
	payload, err := metrics.Compute([]models.RegistrationRecord{
		{Date: "2023-01-01", VehicleType: "4W", Manufacturer: "Kia", Count: 100},
		{Date: "2023-01-01", VehicleType: "2W", Manufacturer: "Hero", Count: 50},
		{Date: "2024-01-01", VehicleType: "4W", Manufacturer: "Kia", Count: 110},
		{Date: "2024-01-01", VehicleType: "2W", Manufacturer: "Hero", Count: 25},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		series models.VehicleSeries
		date   string
		offset int
		want   *float64
	}{
		{"FourWheeler", models.SeriesFourWheeler, "2024-01-01", metrics.YearOffset, ptr(10)},
		{"TwoWheeler", models.SeriesTwoWheeler, "2024-01-01", metrics.YearOffset, ptr(-50)},
		{"Total", models.SeriesTotal, "2024-01-01", metrics.YearOffset, ptr(-10)},
		{"ZeroPredecessor", models.SeriesTotal, "2024-01-01", metrics.QuarterOffset, nil},
		{"NoPredecessor", models.SeriesTotal, "2023-06-01", metrics.YearOffset, nil},
		{"UnknownDate", models.SeriesTotal, "2030-01-01", metrics.YearOffset, nil},
		{"MalformedDate", models.SeriesTotal, "January", metrics.YearOffset, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SeriesGrowth(payload, tt.series, tt.date, tt.offset)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("expected nil, got %v", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("SeriesGrowth() = %v, want %v", got, *tt.want)
			}
		})
	}

	if SeriesGrowth(nil, models.SeriesTotal, "2024-01-01", 12) != nil {
		t.Error("nil payload should give nil growth")
	}
}

func ptr(v float64) *float64 { return &v }
