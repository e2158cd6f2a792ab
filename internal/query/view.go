package query

import (
	"slices"
	"sort"

	"github.com/j-veylop/vahan-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// AllManufacturers is the display label for an empty manufacturer selection.
const AllManufacturers = "All"

// Selection is the dashboard's current filter state.
type Selection struct {
	Range  models.DateRange
	Series models.VehicleSeries
	// Manufacturer limits the manufacturer series; empty means all.
	Manufacturer string
	// From and To, when set, bound the window explicitly and take
	// precedence over Range.
	From *models.Period
	To   *models.Period
}

// DefaultSelection returns the initial dashboard selection.
func DefaultSelection() Selection {
	return Selection{Range: models.DefaultDateRange, Series: models.SeriesTotal}
}

// ManufacturerLabel returns the selected manufacturer or AllManufacturers.
func (s Selection) ManufacturerLabel() string {
	if s.Manufacturer == "" {
		return AllManufacturers
	}
	return s.Manufacturer
}

// window is an inclusive month range; nil bounds are open.
type window struct {
	from *models.Period
	to   *models.Period
}

func (w window) contains(date string) bool {
	p, err := models.ParsePeriod(date)
	if err != nil {
		return false
	}
	if w.from != nil && p.Before(*w.from) {
		return false
	}
	if w.to != nil && w.to.Before(p) {
		return false
	}
	return true
}

func (s Selection) window(payload *models.DashboardPayload) window {
	var w window
	if s.From != nil || s.To != nil {
		w.from, w.to = s.From, s.To
		return w
	}

	years := s.Range.Years()
	if years == 0 {
		return w
	}

	// Ranges end at the latest bucket, not the wall clock.
	if payload.IsEmpty() {
		return w
	}
	anchor, _ := models.ParsePeriod(payload.Latest().Date)

	from := anchor.AddMonths(-12*years + 1)
	w.from = &from
	w.to = &anchor
	return w
}

// Filter returns a copy of payload whose series are limited to the
// selection's window and manufacturer. Totals are copied unchanged.
func Filter(payload *models.DashboardPayload, sel Selection) *models.DashboardPayload {
	out := models.EmptyPayload()
	if payload == nil {
		return out
	}

	out.TotalRegistrations = payload.TotalRegistrations
	out.TotalYoYGrowth = payload.TotalYoYGrowth
	out.TotalQoQGrowth = payload.TotalQoQGrowth

	w := sel.window(payload)
	for _, row := range payload.VehicleTypeData {
		if w.contains(row.Date) {
			out.VehicleTypeData = append(out.VehicleTypeData, row)
		}
	}
	for _, row := range payload.ManufacturerData {
		if sel.Manufacturer != "" && row.Manufacturer != sel.Manufacturer {
			continue
		}
		if w.contains(row.Date) {
			out.ManufacturerData = append(out.ManufacturerData, row)
		}
	}
	return out
}

// Summary holds the card values of the dashboard.
type Summary struct {
	TotalRegistrations int64
	TotalYoYGrowth     *float64
	TotalQoQGrowth     *float64

	// Latest is the most recent bucket inside the window, or nil.
	Latest *models.VehicleTypeAggregate
	Series models.VehicleSeries
	// SeriesLatest is the selected series value in Latest.
	SeriesLatest int64
	// SeriesWindow is the selected series summed over the window.
	SeriesWindow int64
	Months       int

	Manufacturer string
	// TopRegistrations sums the window for all manufacturers, or holds the
	// latest month of a single manufacturer.
	TopRegistrations int64
	ManufacturerYoY  *float64
	ManufacturerQoQ  *float64
}

// Summarize filters payload and derives the card values.
func Summarize(payload *models.DashboardPayload, sel Selection) Summary {
	filtered := Filter(payload, sel)

	s := Summary{
		TotalRegistrations: filtered.TotalRegistrations,
		TotalYoYGrowth:     filtered.TotalYoYGrowth,
		TotalQoQGrowth:     filtered.TotalQoQGrowth,
		Series:             sel.Series,
		Months:             len(filtered.VehicleTypeData),
		Manufacturer:       sel.ManufacturerLabel(),
	}

	if latest := filtered.Latest(); latest != nil {
		s.Latest = latest
		s.SeriesLatest = latest.Value(sel.Series)
	}
	for _, row := range filtered.VehicleTypeData {
		s.SeriesWindow += row.Value(sel.Series)
	}

	rows := filtered.ManufacturerData
	switch {
	case len(rows) == 0:
	case sel.Manufacturer == "":
		for _, row := range rows {
			s.TopRegistrations += row.Registrations
		}
	default:
		last := rows[len(rows)-1]
		s.TopRegistrations = last.Registrations
		s.ManufacturerYoY = last.YoYGrowth
		s.ManufacturerQoQ = last.QoQGrowth
	}
	return s
}

// SeriesGrowth compares the selected series at date with the bucket offset
// months earlier.
func SeriesGrowth(payload *models.DashboardPayload, series models.VehicleSeries, date string, offset int) *float64 {
	if payload == nil {
		return nil
	}
	p, err := models.ParsePeriod(date)
	if err != nil {
		return nil
	}
	prevDate := p.AddMonths(-offset).DateString()

	rows := payload.VehicleTypeData
	cur := slices.IndexFunc(rows, func(r models.VehicleTypeAggregate) bool { return r.Date == date })
	prev := slices.IndexFunc(rows, func(r models.VehicleTypeAggregate) bool { return r.Date == prevDate })
	if cur < 0 || prev < 0 {
		return nil
	}
	return metrics.Growth(rows[cur].Value(series), rows[prev].Value(series))
}

// ManufacturerNames returns the sorted unique manufacturer names.
func ManufacturerNames(payload *models.DashboardPayload) []string {
	names := make([]string, 0)
	if payload == nil {
		return names
	}

	seen := make(map[string]struct{})
	for _, row := range payload.ManufacturerData {
		if _, ok := seen[row.Manufacturer]; ok {
			continue
		}
		seen[row.Manufacturer] = struct{}{}
		names = append(names, row.Manufacturer)
	}
	sort.Strings(names)
	return names
}

// SeriesValues returns the selected series as chart values.
func SeriesValues(rows []models.VehicleTypeAggregate, series models.VehicleSeries) []float64 {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = float64(row.Value(series))
	}
	return values
}

// ManufacturerValues returns monthly registrations as chart values.
func ManufacturerValues(rows []models.ManufacturerAggregate) []float64 {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = float64(row.Registrations)
	}
	return values
}

// ManufacturerTotal is a manufacturer's registrations summed over a window.
type ManufacturerTotal struct {
	Name          string
	Registrations int64
}

// ManufacturerTotals ranks manufacturers by summed registrations, largest
// first; ties sort by name.
func ManufacturerTotals(rows []models.ManufacturerAggregate) []ManufacturerTotal {
	sums := make(map[string]int64)
	for _, row := range rows {
		sums[row.Manufacturer] += row.Registrations
	}

	totals := make([]ManufacturerTotal, 0, len(sums))
	for name, n := range sums {
		totals = append(totals, ManufacturerTotal{Name: name, Registrations: n})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Registrations != totals[j].Registrations {
			return totals[i].Registrations > totals[j].Registrations
		}
		return totals[i].Name < totals[j].Name
	})
	return totals
}
