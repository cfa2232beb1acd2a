package domain

// Tier names the three provider slots a rate request can target.
type Tier string

const (
	TierPrimaryDaily      Tier = "primary_daily"
	TierPrimaryBackfill   Tier = "primary_backfill"
	TierSecondaryBackfill Tier = "secondary_backfill"
)

// ParseTier validates a tier string.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierPrimaryDaily, TierPrimaryBackfill, TierSecondaryBackfill:
		return Tier(s), true
	}
	return "", false
}

// StrategySource tags how a tier's provider was chosen.
type StrategySource string

const (
	StrategySourceEnv        StrategySource = "env"
	StrategySourceInferred   StrategySource = "inferred"
	StrategySourceDefault    StrategySource = "default"
	StrategySourceEnvInvalid StrategySource = "env_invalid"
	StrategySourceNone       StrategySource = "none"
)

// ProviderStrategy is the resolved provider selection for all tiers. Derived
// from process configuration at read time, never persisted.
type ProviderStrategy struct {
	Daily             ProviderName // always set, defaults to currencyfreaks
	PrimaryBackfill   ProviderName // empty when no provider is usable
	SecondaryBackfill ProviderName // empty when no distinct secondary exists
	Configured        map[ProviderName]bool
	Sources           map[Tier]StrategySource
}

// ProviderForTier returns the provider selected for a tier, empty when none.
func (s ProviderStrategy) ProviderForTier(tier Tier) ProviderName {
	switch tier {
	case TierPrimaryDaily:
		return s.Daily
	case TierPrimaryBackfill:
		return s.PrimaryBackfill
	case TierSecondaryBackfill:
		return s.SecondaryBackfill
	}
	return ""
}
