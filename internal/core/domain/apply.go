package domain

import "time"

// TableApplyStats reports one ad-metric table's share of a conversion run.
// Candidates are TRY rows in the window, convertible the subset whose date
// has a stored rate, updated the rows actually rewritten.
type TableApplyStats struct {
	Table       string
	Candidates  int64
	Convertible int64
	Updated     int64
}

// ApplyTotals sums the per-table stats.
type ApplyTotals struct {
	Candidates  int64
	Convertible int64
	Updated     int64
}

// ApplyResult is the outcome of one conversion run over a date window.
type ApplyResult struct {
	Store            string
	StartDate        time.Time
	EndDate          time.Time
	Tables           []TableApplyStats
	Totals           ApplyTotals
	MissingRateDates []string
}

// BackfillRangeResult summarizes a batch backfill over a date window.
type BackfillRangeResult struct {
	Requested     int
	AlreadyStored int
	Fetched       int
	Failed        int
	CallsUsed     int
	StoppedEarly  bool
	FailedDates   []string
}
