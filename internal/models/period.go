package models

import (
	"fmt"
	"time"
)

// Period identifies a calendar month bucket.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month bucket containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses "2006-01" or "2006-01-02" into its month bucket.
func ParsePeriod(s string) (Period, error) {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return PeriodOf(t), nil
		}
	}
	return Period{}, fmt.Errorf("invalid period %q", s)
}

// Start returns midnight UTC on the first day of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last instant of the month.
func (p Period) End() time.Time {
	return p.AddMonths(1).Start().Add(-time.Nanosecond)
}

// AddMonths shifts the period by n calendar months.
func (p Period) AddMonths(n int) Period {
	return PeriodOf(p.Start().AddDate(0, n, 0))
}

// Before reports whether p is earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Index returns a monotonically increasing month number, useful for spans.
func (p Period) Index() int {
	return p.Year*12 + int(p.Month) - 1
}

// String returns the "2006-01" key.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// DateString returns the period start formatted as "2006-01-02".
func (p Period) DateString() string {
	return p.Start().Format(DateLayout)
}

// DateLayout is the canonical day format used in datasets and payloads.
const DateLayout = "2006-01-02"
