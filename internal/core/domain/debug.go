package domain

// QuotaEstimate is a display-only estimate of a metered provider's remaining
// monthly calls. It is never used for throttling.
type QuotaEstimate struct {
	Provider         ProviderName
	MonthlyAllowance int64
	UsedThisMonth    int64
	Remaining        int64
}

// DebugSnapshot aggregates the operational state surfaced by the debug
// endpoint.
type DebugSnapshot struct {
	RecentRates  []RateRecord
	MonthlyUsage map[ProviderName]int64
	Quota        *QuotaEstimate
	MissingDates []string
	Strategy     ProviderStrategy
}
