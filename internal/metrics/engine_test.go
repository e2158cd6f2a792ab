package metrics

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

func rec(date, vt, maker string, count int64) models.RegistrationRecord {
	return models.RegistrationRecord{Date: date, VehicleType: vt, Manufacturer: maker, Count: count}
}

// monthly builds one 4W record per month starting at start, one per value.
func monthly(start string, maker string, values ...int64) []models.RegistrationRecord {
	p, err := models.ParsePeriod(start)
	if err != nil {
		panic(err)
	}
	out := make([]models.RegistrationRecord, 0, len(values))
	for i, v := range values {
		out = append(out, rec(p.AddMonths(i).DateString(), "4W", maker, v))
	}
	return out
}

func approx(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: expected %.4f, got nil", name, want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("%s: expected %.4f, got %.4f", name, want, *got)
	}
}

func TestCompute_Empty(t *testing.T) {
	payload, err := Compute(nil)
	if err != nil {
		t.Fatalf("Compute(nil) failed: %v", err)
	}

	if payload.VehicleTypeData == nil || len(payload.VehicleTypeData) != 0 {
		t.Errorf("expected empty non-nil vehicle series, got %v", payload.VehicleTypeData)
	}
	if payload.ManufacturerData == nil || len(payload.ManufacturerData) != 0 {
		t.Errorf("expected empty non-nil manufacturer series, got %v", payload.ManufacturerData)
	}
	if payload.TotalRegistrations != 0 {
		t.Errorf("expected 0 total registrations, got %d", payload.TotalRegistrations)
	}
	if payload.TotalYoYGrowth != nil || payload.TotalQoQGrowth != nil {
		t.Error("expected nil total growth for empty input")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"vehicleTypeData":[],"manufacturerData":[],"totalRegistrations":0,"totalYoYGrowth":null,"totalQoQGrowth":null}`
	if string(data) != want {
		t.Errorf("unexpected JSON:\n got %s\nwant %s", data, want)
	}
}

func TestCompute_YearOverYear(t *testing.T) {
	values := []int64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 110}
	payload, err := Compute(monthly("2023-01", "Acme", values...))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(payload.VehicleTypeData) != 13 {
		t.Fatalf("expected 13 buckets, got %d", len(payload.VehicleTypeData))
	}

	for i := range 12 {
		if payload.VehicleTypeData[i].YoYGrowth != nil {
			t.Errorf("bucket %d: expected nil YoY growth", i)
		}
	}

	last := payload.VehicleTypeData[12]
	if last.Date != "2024-01-01" {
		t.Errorf("expected last bucket 2024-01-01, got %s", last.Date)
	}
	approx(t, "yoy", last.YoYGrowth, 10.0)
	approx(t, "qoq", last.QoQGrowth, 10.0)
	approx(t, "totalYoY", payload.TotalYoYGrowth, 10.0)
	approx(t, "totalQoQ", payload.TotalQoQGrowth, 10.0)
}

func TestCompute_QuarterOverQuarter(t *testing.T) {
	payload, err := Compute(monthly("2024-01", "Acme", 200, 100, 100, 150, 50))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	for i := range 3 {
		if payload.VehicleTypeData[i].QoQGrowth != nil {
			t.Errorf("bucket %d: expected nil QoQ growth", i)
		}
	}
	approx(t, "april", payload.VehicleTypeData[3].QoQGrowth, -25.0)
	approx(t, "may", payload.VehicleTypeData[4].QoQGrowth, -50.0)

	if payload.TotalYoYGrowth != nil {
		t.Error("expected nil total YoY growth with 5 periods")
	}
}

func TestCompute_ZeroPredecessor(t *testing.T) {
	payload, err := Compute(monthly("2024-01", "Acme", 0, 10, 10, 40))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	last := payload.VehicleTypeData[3]
	if last.QoQGrowth != nil {
		t.Errorf("expected nil growth against a zero predecessor, got %v", *last.QoQGrowth)
	}
}

func TestCompute_GapMonthsAreZeroFilled(t *testing.T) {
	records := []models.RegistrationRecord{
		rec("2024-01-05", "2W", "Hero", 100),
		rec("2024-04-20", "2W", "Hero", 130),
	}

	payload, err := Compute(records)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	dates := make([]string, 0, len(payload.VehicleTypeData))
	for _, row := range payload.VehicleTypeData {
		dates = append(dates, row.Date)
	}
	want := []string{"2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01"}
	if !reflect.DeepEqual(dates, want) {
		t.Fatalf("expected contiguous buckets %v, got %v", want, dates)
	}

	if payload.VehicleTypeData[1].Total != 0 {
		t.Errorf("expected zero-filled February, got %d", payload.VehicleTypeData[1].Total)
	}
	approx(t, "april qoq", payload.VehicleTypeData[3].QoQGrowth, 30.0)

	// Manufacturers are not zero-filled.
	if len(payload.ManufacturerData) != 2 {
		t.Fatalf("expected 2 manufacturer rows, got %d", len(payload.ManufacturerData))
	}
	approx(t, "hero qoq", payload.ManufacturerData[1].QoQGrowth, 30.0)
}

func TestCompute_ManufacturerMidSeries(t *testing.T) {
	// Acme appears only in months 5-8 of a 12 month series.
	records := monthly("2024-01", "Base", 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10)
	records = append(records, monthly("2024-05", "Acme", 40, 50, 60, 80)...)

	payload, err := Compute(records)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	var acme []models.ManufacturerAggregate
	for _, row := range payload.ManufacturerData {
		if row.Manufacturer == "Acme" {
			acme = append(acme, row)
		}
	}
	if len(acme) != 4 {
		t.Fatalf("expected 4 Acme rows, got %d", len(acme))
	}
	if acme[0].Date != "2024-05-01" {
		t.Errorf("expected Acme to start in May, got %s", acme[0].Date)
	}

	for i := range 3 {
		if acme[i].QoQGrowth != nil {
			t.Errorf("Acme row %d: expected nil QoQ growth, predecessor month absent", i)
		}
		if acme[i].YoYGrowth != nil {
			t.Errorf("Acme row %d: expected nil YoY growth", i)
		}
	}
	approx(t, "acme august qoq", acme[3].QoQGrowth, 100.0)
}

func TestCompute_ManufacturerOrdering(t *testing.T) {
	records := []models.RegistrationRecord{
		rec("2024-02-10", "4W", "Toyota", 3),
		rec("2024-01-10", "4W", "Kia", 1),
		rec("2024-02-11", "4W", "Hyundai", 2),
		rec("2024-01-12", "4W", "Hyundai", 4),
		rec("2024-01-13", "4W", "Hyundai", 5),
	}

	payload, err := Compute(records)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	type row struct {
		date, maker string
		regs        int64
	}
	var got []row
	for _, m := range payload.ManufacturerData {
		got = append(got, row{m.Date, m.Manufacturer, m.Registrations})
	}
	want := []row{
		{"2024-01-01", "Hyundai", 9},
		{"2024-01-01", "Kia", 1},
		{"2024-02-01", "Hyundai", 2},
		{"2024-02-01", "Toyota", 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected manufacturer series:\n got %v\nwant %v", got, want)
	}
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		record models.RegistrationRecord
		field  string
		reason error
	}{
		{"NegativeCount", rec("2024-01-01", "2W", "Hero", -1), "count", ErrNegativeCount},
		{"BadDate", rec("2024-13-45", "2W", "Hero", 1), "date", ErrInvalidDate},
		{"EmptyDate", rec("", "2W", "Hero", 1), "date", ErrInvalidDate},
		{"UnknownVehicleType", rec("2024-01-01", "bus", "Tata", 1), "vehicleType", ErrUnknownVehicleType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []models.RegistrationRecord{
				rec("2024-01-01", "4W", "Kia", 10),
				tt.record,
			}

			payload, err := Compute(records)
			if err == nil {
				t.Fatal("expected an error")
			}
			if payload != nil {
				t.Error("expected no partial payload")
			}

			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %T", err)
			}
			if invalid.Index != 1 {
				t.Errorf("expected index 1, got %d", invalid.Index)
			}
			if invalid.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, invalid.Field)
			}
			if !errors.Is(err, tt.reason) {
				t.Errorf("expected reason %v, got %v", tt.reason, err)
			}
			if !IsInvalidInput(err) {
				t.Error("IsInvalidInput should report true")
			}
		})
	}
}

func TestCompute_Consistency(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	types := []string{"2W", "3W", "4W"}
	makers := []string{"Hero", "Bajaj", "Kia", "Tata"}

	var records []models.RegistrationRecord
	var sum int64
	for i := range 400 {
		p := models.Period{Year: 2022 + i%3, Month: time.Month(1 + (i*7)%12)}
		n := int64(r.IntN(500))
		sum += n
		records = append(records, rec(p.DateString(), types[r.IntN(3)], makers[r.IntN(4)], n))
	}

	payload, err := Compute(records)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if payload.TotalRegistrations != sum {
		t.Errorf("totalRegistrations = %d, want %d", payload.TotalRegistrations, sum)
	}

	var bucketSum, makerSum int64
	for _, row := range payload.VehicleTypeData {
		if row.Total != row.TwoWheeler+row.ThreeWheeler+row.FourWheeler {
			t.Errorf("%s: total %d does not match categories", row.Date, row.Total)
		}
		bucketSum += row.Total
		for _, g := range []*float64{row.YoYGrowth, row.QoQGrowth} {
			if g != nil && (math.IsInf(*g, 0) || math.IsNaN(*g)) {
				t.Errorf("%s: growth must be finite", row.Date)
			}
		}
	}
	for _, row := range payload.ManufacturerData {
		makerSum += row.Registrations
	}
	if bucketSum != sum || makerSum != sum {
		t.Errorf("series sums %d / %d, want %d", bucketSum, makerSum, sum)
	}

	for i := 1; i < len(payload.VehicleTypeData); i++ {
		prev, _ := models.ParsePeriod(payload.VehicleTypeData[i-1].Date)
		cur, _ := models.ParsePeriod(payload.VehicleTypeData[i].Date)
		if prev.AddMonths(1) != cur {
			t.Fatalf("buckets %s and %s are not contiguous", prev, cur)
		}
	}
}

func TestCompute_OrderIndependent(t *testing.T) {
	records := append(monthly("2023-01", "Kia", 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987, 1597, 2584),
		monthly("2023-03", "Tata", 3, 0, 7, 9, 11)...)
	records = append(records, rec("2023-06-15", "2W", "Hero", 42), rec("2023-06-16", "3W", "Bajaj", 7))

	first, err := Compute(records)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	shuffled := make([]models.RegistrationRecord, len(records))
	copy(shuffled, records)
	r := rand.New(rand.NewPCG(1, 2))
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	second, err := Compute(shuffled)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("payload depends on input order")
	}

	again, _ := Compute(records)
	c, _ := json.Marshal(again)
	if string(a) != string(c) {
		t.Error("Compute is not idempotent")
	}
}

func TestCompute_DateFormats(t *testing.T) {
	records := []models.RegistrationRecord{
		rec("2024-03-01", "2W", "Hero", 1),
		rec("2024-03-02 10:30:00", "3W", "Bajaj", 2),
		rec("2024-03-03T08:00:00", "4W", "Kia", 3),
		rec("2024-03-04T08:00:00Z", "four-wheeler", "Kia", 4),
	}

	payload, err := Compute(records)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(payload.VehicleTypeData) != 1 {
		t.Fatalf("expected a single bucket, got %d", len(payload.VehicleTypeData))
	}
	row := payload.VehicleTypeData[0]
	if row.TwoWheeler != 1 || row.ThreeWheeler != 2 || row.FourWheeler != 7 || row.Total != 10 {
		t.Errorf("unexpected bucket %+v", row)
	}
}

func TestCompute_JSONFieldNames(t *testing.T) {
	payload, err := Compute(monthly("2024-01", "Kia", 10))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	data, _ := json.Marshal(payload.VehicleTypeData[0])
	want := `{"date":"2024-01-01","2W":0,"3W":0,"4W":10,"total":10,"yoy_growth":null,"qoq_growth":null}`
	if string(data) != want {
		t.Errorf("vehicle row JSON:\n got %s\nwant %s", data, want)
	}

	data, _ = json.Marshal(payload.ManufacturerData[0])
	want = `{"date":"2024-01-01","manufacturer":"Kia","registrations":10,"yoy_growth":null,"qoq_growth":null}`
	if string(data) != want {
		t.Errorf("manufacturer row JSON:\n got %s\nwant %s", data, want)
	}
}
