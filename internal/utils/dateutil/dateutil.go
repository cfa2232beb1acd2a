// Package dateutil is the single home for reporting-day calendar math.
// All ad metrics are aggregated per calendar day in a fixed GMT+3 zone:
// a UTC instant belongs to the day obtained by adding three hours and
// truncating. Days are represented as time.Time values at UTC midnight so
// they compare with Equal and store cleanly in DATE columns.
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the only externally surfaced date format.
const Layout = "2006-01-02"

// ReportingZone is the fixed reporting timezone for all tenants.
var ReportingZone = time.FixedZone("GMT+3", 3*60*60)

var nowFunc = time.Now

// SetNowFunc overrides the clock and returns a restore function. Test hook.
func SetNowFunc(f func() time.Time) func() {
	prev := nowFunc
	nowFunc = f
	return func() { nowFunc = prev }
}

// DateOf maps an instant to its reporting day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.In(ReportingZone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current reporting day.
func Today() time.Time {
	return DateOf(nowFunc())
}

// Yesterday returns the most recently finalized reporting day.
func Yesterday() time.Time {
	return AddDays(Today(), -1)
}

// EffectiveLookupDate remaps a lookup for today to yesterday: today's close
// is not yet published by any provider.
func EffectiveLookupDate(d time.Time) time.Time {
	if d.Equal(Today()) {
		return Yesterday()
	}
	return d
}

// AddDays shifts a day by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b (negative when b
// precedes a).
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// EachDay returns every day from start through end inclusive.
func EachDay(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	days := make([]time.Time, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// Parse parses a strict YYYY-MM-DD day.
func Parse(s string) (time.Time, error) {
	d, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	// time.Parse accepts e.g. "2024-6-15"; require the canonical form.
	if d.Format(Layout) != s {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// Format renders a day as YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(Layout)
}

// MonthWindow returns the first instant of the reporting month containing t
// and the first instant of the following month, both in UTC.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(ReportingZone)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, ReportingZone)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}
