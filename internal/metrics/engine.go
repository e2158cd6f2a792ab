// Package metrics turns raw registration records into monthly series with
// year-over-year and quarter-over-quarter growth.
//
// Compute is a pure function: it keeps no package state and may be called
// concurrently from independent requests.
package metrics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// dateLayouts lists the accepted spellings of a record date.
var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// entry is a validated record.
type entry struct {
	period       models.Period
	vehicleType  models.VehicleType
	manufacturer string
	count        int64
}

type makerKey struct {
	period models.Period
	name   string
}

type bucket struct {
	counts [models.VehicleTypeCount]int64
	total  int64
}

// Compute aggregates records into a DashboardPayload.
//
// The vehicle-type series covers every month between the first and last
// observed month; months without records appear with zero counts. The
// manufacturer series only lists months in which the manufacturer has
// records. Growth compares against the same calendar month one year (YoY)
// or three months (QoQ) earlier and is nil when that month is absent or zero.
func Compute(records []models.RegistrationRecord) (*models.DashboardPayload, error) {
	entries := make([]entry, 0, len(records))
	for i, rec := range records {
		e, err := validate(i, rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	payload := models.EmptyPayload()
	if len(entries) == 0 {
		return payload, nil
	}

	buckets := make(map[models.Period]*bucket)
	makers := make(map[makerKey]int64)
	first, last := entries[0].period, entries[0].period

	for _, e := range entries {
		b, ok := buckets[e.period]
		if !ok {
			b = &bucket{}
			buckets[e.period] = b
		}
		b.counts[e.vehicleType] += e.count
		b.total += e.count

		makers[makerKey{period: e.period, name: e.manufacturer}] += e.count
		payload.TotalRegistrations += e.count

		if e.period.Before(first) {
			first = e.period
		}
		if last.Before(e.period) {
			last = e.period
		}
	}

	totals := make(map[models.Period]int64, last.Index()-first.Index()+1)
	for p := first; !last.Before(p); p = p.AddMonths(1) {
		if b, ok := buckets[p]; ok {
			totals[p] = b.total
		} else {
			totals[p] = 0
			buckets[p] = &bucket{}
		}
	}

	payload.VehicleTypeData = vehicleTypeSeries(first, last, buckets, totals)
	payload.ManufacturerData = manufacturerSeries(makers)

	latest := payload.VehicleTypeData[len(payload.VehicleTypeData)-1]
	payload.TotalYoYGrowth = latest.YoYGrowth
	payload.TotalQoQGrowth = latest.QoQGrowth

	return payload, nil
}

func validate(i int, rec models.RegistrationRecord) (entry, error) {
	if rec.Count < 0 {
		return entry{}, &InvalidInputError{Index: i, Field: "count", Value: strconv.FormatInt(rec.Count, 10), Err: ErrNegativeCount}
	}

	date, ok := parseDate(rec.Date)
	if !ok {
		return entry{}, &InvalidInputError{Index: i, Field: "date", Value: rec.Date, Err: ErrInvalidDate}
	}

	vt, ok := models.ParseVehicleType(rec.VehicleType)
	if !ok {
		return entry{}, &InvalidInputError{Index: i, Field: "vehicleType", Value: rec.VehicleType, Err: ErrUnknownVehicleType}
	}

	return entry{
		period:       models.PeriodOf(date),
		vehicleType:  vt,
		manufacturer: rec.Manufacturer,
		count:        rec.Count,
	}, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func vehicleTypeSeries(
	first, last models.Period,
	buckets map[models.Period]*bucket,
	totals map[models.Period]int64,
) []models.VehicleTypeAggregate {
	self := func(p models.Period) models.Period { return p }

	series := make([]models.VehicleTypeAggregate, 0, len(totals))
	for p := first; !last.Before(p); p = p.AddMonths(1) {
		b := buckets[p]
		series = append(series, models.VehicleTypeAggregate{
			Date:         p.DateString(),
			TwoWheeler:   b.counts[models.TwoWheeler],
			ThreeWheeler: b.counts[models.ThreeWheeler],
			FourWheeler:  b.counts[models.FourWheeler],
			Total:        b.total,
			YoYGrowth:    growthAt(totals, self, p, YearOffset),
			QoQGrowth:    growthAt(totals, self, p, QuarterOffset),
		})
	}
	return series
}

func manufacturerSeries(makers map[makerKey]int64) []models.ManufacturerAggregate {
	keys := make([]makerKey, 0, len(makers))
	for k := range makers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].period != keys[j].period {
			return keys[i].period.Before(keys[j].period)
		}
		return keys[i].name < keys[j].name
	})

	series := make([]models.ManufacturerAggregate, 0, len(keys))
	for _, k := range keys {
		name := k.name
		keyOf := func(p models.Period) makerKey { return makerKey{period: p, name: name} }

		series = append(series, models.ManufacturerAggregate{
			Date:          k.period.DateString(),
			Manufacturer:  k.name,
			Registrations: makers[k],
			YoYGrowth:     growthAt(makers, keyOf, k.period, YearOffset),
			QoQGrowth:     growthAt(makers, keyOf, k.period, QuarterOffset),
		})
	}
	return series
}
