// Package models defines data structures and domain types.
package models

import (
	"slices"
	"strings"
)

// VehicleType is the closed set of vehicle classes a registration can belong to.
type VehicleType int

const (
	// TwoWheeler covers motorcycles and scooters.
	TwoWheeler VehicleType = iota
	// ThreeWheeler covers auto-rickshaws and light goods carriers.
	ThreeWheeler
	// FourWheeler covers cars and other four-wheeled vehicles.
	FourWheeler
)

// VehicleTypeCount is the number of vehicle classes.
const VehicleTypeCount = 3

// AllVehicleTypes returns every vehicle type in display order.
func AllVehicleTypes() []VehicleType {
	return []VehicleType{TwoWheeler, ThreeWheeler, FourWheeler}
}

// String returns the short code used in datasets and payloads.
func (v VehicleType) String() string {
	switch v {
	case TwoWheeler:
		return "2W"
	case ThreeWheeler:
		return "3W"
	case FourWheeler:
		return "4W"
	default:
		return "Unknown"
	}
}

// Label returns the human readable name.
func (v VehicleType) Label() string {
	switch v {
	case TwoWheeler:
		return "Two-Wheeler"
	case ThreeWheeler:
		return "Three-Wheeler"
	case FourWheeler:
		return "Four-Wheeler"
	default:
		return "Unknown"
	}
}

// Valid reports whether v is one of the known vehicle types.
func (v VehicleType) Valid() bool {
	return v >= TwoWheeler && v <= FourWheeler
}

// vehicleTypeAliases lists every lower-case spelling accepted per type.
var vehicleTypeAliases = [VehicleTypeCount][]string{
	TwoWheeler:   {"2w", "two-wheeler", "two_wheeler", "twowheeler"},
	ThreeWheeler: {"3w", "three-wheeler", "three_wheeler", "threewheeler"},
	FourWheeler:  {"4w", "four-wheeler", "four_wheeler", "fourwheeler"},
}

// Aliases returns the lower-case spellings ParseVehicleType maps to v.
func (v VehicleType) Aliases() []string {
	if !v.Valid() {
		return nil
	}
	return slices.Clone(vehicleTypeAliases[v])
}

// ParseVehicleType maps a dataset value to a VehicleType.
// Short codes and long names are accepted, case-insensitively.
func ParseVehicleType(s string) (VehicleType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range AllVehicleTypes() {
		if slices.Contains(vehicleTypeAliases[v], s) {
			return v, true
		}
	}
	return 0, false
}
