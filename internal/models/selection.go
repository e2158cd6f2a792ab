package models

// DateRange represents the selected dashboard window.
type DateRange int

const (
	// DateRangeLastYear shows the last 12 months.
	DateRangeLastYear DateRange = iota
	// DateRangeLast2Years shows the last 24 months.
	DateRangeLast2Years
	// DateRangeLast3Years shows the last 36 months.
	DateRangeLast3Years
	// DateRangeAllTime shows every available month.
	DateRangeAllTime
)

// DefaultDateRange matches the dashboard's initial two-year window.
const DefaultDateRange = DateRangeLast2Years

// String returns the display name for a date range.
func (r DateRange) String() string {
	switch r {
	case DateRangeLastYear:
		return "Last 12 Months"
	case DateRangeLast2Years:
		return "Last 2 Years"
	case DateRangeLast3Years:
		return "Last 3 Years"
	case DateRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Years returns the number of years covered (0 = unlimited).
func (r DateRange) Years() int {
	switch r {
	case DateRangeLastYear:
		return 1
	case DateRangeLast2Years:
		return 2
	case DateRangeLast3Years:
		return 3
	case DateRangeAllTime:
		return 0
	default:
		return 2
	}
}

// Next cycles to the next date range.
func (r DateRange) Next() DateRange {
	return (r + 1) % 4
}

// VehicleSeries selects which vehicle-type column the dashboard plots.
type VehicleSeries int

const (
	// SeriesTotal plots the sum across vehicle types.
	SeriesTotal VehicleSeries = iota
	// SeriesTwoWheeler plots two-wheelers only.
	SeriesTwoWheeler
	// SeriesThreeWheeler plots three-wheelers only.
	SeriesThreeWheeler
	// SeriesFourWheeler plots four-wheelers only.
	SeriesFourWheeler
)

// String returns the display name for a series.
func (s VehicleSeries) String() string {
	if vt, ok := s.VehicleType(); ok {
		return vt.String()
	}
	return "Total"
}

// VehicleType returns the vehicle type for a single-type series.
func (s VehicleSeries) VehicleType() (VehicleType, bool) {
	switch s {
	case SeriesTwoWheeler:
		return TwoWheeler, true
	case SeriesThreeWheeler:
		return ThreeWheeler, true
	case SeriesFourWheeler:
		return FourWheeler, true
	default:
		return 0, false
	}
}

// Next cycles to the next series.
func (s VehicleSeries) Next() VehicleSeries {
	return (s + 1) % 4
}

// ParseVehicleSeries accepts "total" or any vehicle type spelling.
func ParseVehicleSeries(s string) (VehicleSeries, bool) {
	if s == "" || s == "total" || s == "Total" {
		return SeriesTotal, true
	}
	vt, ok := ParseVehicleType(s)
	if !ok {
		return SeriesTotal, false
	}
	return VehicleSeries(int(vt) + 1), true
}
