// Package synth produces synthetic daily registration data for demos and
// first runs without a dataset.
package synth

import (
	"math/rand/v2"
	"time"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// Daily volume bounds and category shares.
const (
	minDailyTotal = 1000
	maxDailyTotal = 5000

	minTwoWheelerShare   = 0.60
	maxTwoWheelerShare   = 0.75
	minThreeWheelerShare = 0.05
	maxThreeWheelerShare = 0.10

	// maxChunk caps a single random top-up when distributing leftovers.
	maxChunk = 200
)

// Manufacturers lists the makers each vehicle type is split across.
var Manufacturers = map[models.VehicleType][]string{
	models.TwoWheeler:   {"Hero MotoCorp", "Honda", "TVS Motor", "Bajaj Auto", "Royal Enfield"},
	models.ThreeWheeler: {"Bajaj Auto", "Piaggio", "Mahindra", "Atul Auto"},
	models.FourWheeler:  {"Maruti Suzuki", "Hyundai", "Tata Motors", "Mahindra", "Honda", "Toyota", "Kia", "MG Motor"},
}

// Options controls a generation run.
type Options struct {
	Start time.Time
	End   time.Time
	// Seed makes output reproducible. Zero picks a time based seed.
	Seed uint64
}

// LastYears returns options covering the given number of years up to now.
func LastYears(years int, now time.Time, seed uint64) Options {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Options{
		Start: end.AddDate(-years, 0, 0),
		End:   end,
		Seed:  seed,
	}
}

// Generate returns one record per day, vehicle type and manufacturer with a
// non-zero count, for every day from Start to End inclusive.
func Generate(opts Options) []models.RegistrationRecord {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	start := truncateDay(opts.Start)
	end := truncateDay(opts.End)

	var records []models.RegistrationRecord
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(models.DateLayout)
		daily := dailyCounts(r)
		for _, vt := range models.AllVehicleTypes() {
			counts := split(r, daily[vt], Manufacturers[vt])
			for i, maker := range Manufacturers[vt] {
				if counts[i] == 0 {
					continue
				}
				records = append(records, models.RegistrationRecord{
					Date:         date,
					VehicleType:  vt.String(),
					Manufacturer: maker,
					Count:        counts[i],
				})
			}
		}
	}
	return records
}

// dailyCounts draws one day's total and splits it into the three categories.
func dailyCounts(r *rand.Rand) [models.VehicleTypeCount]int64 {
	total := minDailyTotal + r.Int64N(maxDailyTotal-minDailyTotal+1)
	two := int64(float64(total) * uniform(r, minTwoWheelerShare, maxTwoWheelerShare))
	three := int64(float64(total) * uniform(r, minThreeWheelerShare, maxThreeWheelerShare))
	four := max(total-two-three, 0)

	var out [models.VehicleTypeCount]int64
	out[models.TwoWheeler] = two
	out[models.ThreeWheeler] = three
	out[models.FourWheeler] = four
	return out
}

// split distributes total across makers: first a random base of up to half
// an even share each, then random chunks until nothing is left.
func split(r *rand.Rand, total int64, makers []string) []int64 {
	out := make([]int64, len(makers))
	if len(makers) == 0 {
		return out
	}

	remaining := total
	base := remaining / int64(len(makers)) / 2
	for i := range makers {
		if remaining <= 0 {
			break
		}
		n := r.Int64N(min(base, remaining) + 1)
		out[i] += n
		remaining -= n
	}

	for remaining > 0 {
		n := 1 + r.Int64N(min(remaining, maxChunk))
		out[r.IntN(len(makers))] += n
		remaining -= n
	}
	return out
}

func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
