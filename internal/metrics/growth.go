package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// Comparison offsets in months.
const (
	YearOffset    = 12
	QuarterOffset = 3
)

var hundred = decimal.NewFromInt(100)

// Growth returns the percentage change from prev to cur.
// It returns nil when prev is zero, so callers never see 0% or infinity
// for a missing baseline.
func Growth(cur, prev int64) *float64 {
	if prev == 0 {
		return nil
	}
	base := decimal.NewFromInt(prev)
	pct, _ := decimal.NewFromInt(cur).Sub(base).Div(base).Mul(hundred).Float64()
	return &pct
}

// growthAt looks up the value offset months before p in series.
func growthAt[K comparable](series map[K]int64, key func(models.Period) K, p models.Period, offset int) *float64 {
	prev, ok := series[key(p.AddMonths(-offset))]
	if !ok {
		return nil
	}
	return Growth(series[key(p)], prev)
}
