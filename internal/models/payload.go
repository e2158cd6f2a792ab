package models

// VehicleTypeAggregate holds one monthly bucket of the vehicle-type series.
// Growth fields are nil when no comparable predecessor exists.
type VehicleTypeAggregate struct {
	Date         string   `json:"date"`
	TwoWheeler   int64    `json:"2W"`
	ThreeWheeler int64    `json:"3W"`
	FourWheeler  int64    `json:"4W"`
	Total        int64    `json:"total"`
	YoYGrowth    *float64 `json:"yoy_growth"`
	QoQGrowth    *float64 `json:"qoq_growth"`
}

// Count returns the registrations of a single vehicle type.
func (a VehicleTypeAggregate) Count(v VehicleType) int64 {
	switch v {
	case TwoWheeler:
		return a.TwoWheeler
	case ThreeWheeler:
		return a.ThreeWheeler
	case FourWheeler:
		return a.FourWheeler
	default:
		return 0
	}
}

// Value returns the registrations for the selected series.
func (a VehicleTypeAggregate) Value(s VehicleSeries) int64 {
	if vt, ok := s.VehicleType(); ok {
		return a.Count(vt)
	}
	return a.Total
}

// ManufacturerAggregate holds one manufacturer's registrations for a month.
type ManufacturerAggregate struct {
	Date          string   `json:"date"`
	Manufacturer  string   `json:"manufacturer"`
	Registrations int64    `json:"registrations"`
	YoYGrowth     *float64 `json:"yoy_growth"`
	QoQGrowth     *float64 `json:"qoq_growth"`
}

// DashboardPayload is the complete result handed to the rendering layer.
type DashboardPayload struct {
	VehicleTypeData    []VehicleTypeAggregate  `json:"vehicleTypeData"`
	ManufacturerData   []ManufacturerAggregate `json:"manufacturerData"`
	TotalRegistrations int64                   `json:"totalRegistrations"`
	TotalYoYGrowth     *float64                `json:"totalYoYGrowth"`
	TotalQoQGrowth     *float64                `json:"totalQoQGrowth"`
}

// EmptyPayload returns a payload with empty, non-nil series.
func EmptyPayload() *DashboardPayload {
	return &DashboardPayload{
		VehicleTypeData:  make([]VehicleTypeAggregate, 0),
		ManufacturerData: make([]ManufacturerAggregate, 0),
	}
}

// IsEmpty reports whether the payload carries no buckets.
func (p *DashboardPayload) IsEmpty() bool {
	return p == nil || len(p.VehicleTypeData) == 0
}

// Latest returns the most recent vehicle-type bucket, or nil.
func (p *DashboardPayload) Latest() *VehicleTypeAggregate {
	if p.IsEmpty() {
		return nil
	}
	return &p.VehicleTypeData[len(p.VehicleTypeData)-1]
}
