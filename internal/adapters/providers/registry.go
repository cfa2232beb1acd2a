package providers

import (
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	"github.com/shawqlabs/fxn_backend/internal/platform/config"
)

// NewFetchers wires every supported adapter from configuration. Unconfigured
// adapters are included too: they report Configured() == false and fail with
// missing_api_key when invoked, which keeps the error surface uniform.
func NewFetchers(cfg *config.Config, usage portsprov.UsageRecorder) map[domain.ProviderName]portsprov.RateFetcher {
	return map[domain.ProviderName]portsprov.RateFetcher{
		domain.ProviderCurrencyFreaks: NewCurrencyFreaks(cfg.CurrencyFreaksAPIKey, cfg.ProviderTimeout, usage),
		domain.ProviderOXR:            NewOXR(cfg.OXRAppID, cfg.ProviderTimeout, usage),
		domain.ProviderAPILayer:       NewAPILayer(cfg.APILayerKey, cfg.ProviderTimeout, usage),
		domain.ProviderFrankfurter:    NewFrankfurter(cfg.ProviderTimeout, usage),
	}
}
