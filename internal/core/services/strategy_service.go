package services

import (
	"strings"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/platform/config"
)

// providerAliases normalizes the spellings operators actually use in env
// vars onto the closed provider set.
var providerAliases = map[string]domain.ProviderName{
	"currencyfreaks":      domain.ProviderCurrencyFreaks,
	"currency-freaks":     domain.ProviderCurrencyFreaks,
	"currency_freaks":     domain.ProviderCurrencyFreaks,
	"oxr":                 domain.ProviderOXR,
	"openexchangerates":   domain.ProviderOXR,
	"open-exchange-rates": domain.ProviderOXR,
	"open_exchange_rates": domain.ProviderOXR,
	"apilayer":            domain.ProviderAPILayer,
	"api-layer":           domain.ProviderAPILayer,
	"api_layer":           domain.ProviderAPILayer,
	"frankfurter":         domain.ProviderFrankfurter,
	"frankfurt":           domain.ProviderFrankfurter,
	"ecb":                 domain.ProviderFrankfurter,
}

// normalizeProviderName resolves an env value to a provider name.
func normalizeProviderName(raw string) (domain.ProviderName, bool) {
	name, ok := providerAliases[strings.ToLower(strings.TrimSpace(raw))]
	return name, ok
}

// strategyService derives the per-tier provider selection from configuration.
// Invalid env values downgrade to a warning tag, never an error: a bad
// override must not take rate resolution down with it.
type strategyService struct {
	cfg *config.Config
}

// NewStrategyService creates a new strategy service.
func NewStrategyService(cfg *config.Config) portssvc.StrategySvcFacade {
	return &strategyService{cfg: cfg}
}

func (s *strategyService) Resolve() domain.ProviderStrategy {
	strategy := domain.ProviderStrategy{
		Configured: map[domain.ProviderName]bool{
			domain.ProviderCurrencyFreaks: s.cfg.CurrencyFreaksAPIKey != "",
			domain.ProviderOXR:            s.cfg.OXRAppID != "",
			domain.ProviderAPILayer:       s.cfg.APILayerKey != "",
			// Frankfurter is keyless and therefore always available.
			domain.ProviderFrankfurter: true,
		},
		Sources: map[domain.Tier]domain.StrategySource{},
	}

	s.resolveDaily(&strategy)
	s.resolvePrimaryBackfill(&strategy)
	s.resolveSecondaryBackfill(&strategy)
	return strategy
}

// resolveDaily picks the latest-rate source. Only CurrencyFreaks publishes a
// latest quote, so that is both the supported set and the default.
func (s *strategyService) resolveDaily(strategy *domain.ProviderStrategy) {
	strategy.Daily = domain.ProviderCurrencyFreaks
	strategy.Sources[domain.TierPrimaryDaily] = domain.StrategySourceDefault

	if s.cfg.DailyProviderRaw == "" {
		return
	}
	name, ok := normalizeProviderName(s.cfg.DailyProviderRaw)
	if !ok || name != domain.ProviderCurrencyFreaks {
		strategy.Sources[domain.TierPrimaryDaily] = domain.StrategySourceEnvInvalid
		return
	}
	strategy.Daily = name
	strategy.Sources[domain.TierPrimaryDaily] = domain.StrategySourceEnv
}

// resolvePrimaryBackfill: explicit env wins; otherwise infer from credential
// presence in priority order currencyfreaks, apilayer, oxr.
func (s *strategyService) resolvePrimaryBackfill(strategy *domain.ProviderStrategy) {
	envInvalid := false
	if s.cfg.BackfillPrimaryRaw != "" {
		if name, ok := normalizeProviderName(s.cfg.BackfillPrimaryRaw); ok {
			strategy.PrimaryBackfill = name
			strategy.Sources[domain.TierPrimaryBackfill] = domain.StrategySourceEnv
			return
		}
		envInvalid = true
	}

	for _, name := range []domain.ProviderName{domain.ProviderCurrencyFreaks, domain.ProviderAPILayer, domain.ProviderOXR} {
		if strategy.Configured[name] {
			strategy.PrimaryBackfill = name
			if envInvalid {
				strategy.Sources[domain.TierPrimaryBackfill] = domain.StrategySourceEnvInvalid
			} else {
				strategy.Sources[domain.TierPrimaryBackfill] = domain.StrategySourceInferred
			}
			return
		}
	}

	if envInvalid {
		strategy.Sources[domain.TierPrimaryBackfill] = domain.StrategySourceEnvInvalid
	} else {
		strategy.Sources[domain.TierPrimaryBackfill] = domain.StrategySourceNone
	}
}

// resolveSecondaryBackfill: explicit env wins; otherwise OXR when configured
// and distinct from the primary.
func (s *strategyService) resolveSecondaryBackfill(strategy *domain.ProviderStrategy) {
	envInvalid := false
	if s.cfg.BackfillSecondaryRaw != "" {
		if name, ok := normalizeProviderName(s.cfg.BackfillSecondaryRaw); ok {
			strategy.SecondaryBackfill = name
			strategy.Sources[domain.TierSecondaryBackfill] = domain.StrategySourceEnv
			return
		}
		envInvalid = true
	}

	if strategy.Configured[domain.ProviderOXR] && strategy.PrimaryBackfill != domain.ProviderOXR {
		strategy.SecondaryBackfill = domain.ProviderOXR
		if envInvalid {
			strategy.Sources[domain.TierSecondaryBackfill] = domain.StrategySourceEnvInvalid
		} else {
			strategy.Sources[domain.TierSecondaryBackfill] = domain.StrategySourceInferred
		}
		return
	}

	if envInvalid {
		strategy.Sources[domain.TierSecondaryBackfill] = domain.StrategySourceEnvInvalid
	} else {
		strategy.Sources[domain.TierSecondaryBackfill] = domain.StrategySourceNone
	}
}
