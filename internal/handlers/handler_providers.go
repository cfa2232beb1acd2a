package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/dto"
)

// providersHandler reports provider readiness and the resolved tier strategy.
type providersHandler struct {
	strategyService portssvc.StrategySvcFacade
	fetchers        map[domain.ProviderName]portsprov.RateFetcher
}

func newProvidersHandler(ss portssvc.StrategySvcFacade, fetchers map[domain.ProviderName]portsprov.RateFetcher) *providersHandler {
	return &providersHandler{
		strategyService: ss,
		fetchers:        fetchers,
	}
}

// registerProviderRoutes registers routes related to provider introspection.
func registerProviderRoutes(rg *gin.RouterGroup, ss portssvc.StrategySvcFacade, fetchers map[domain.ProviderName]portsprov.RateFetcher) {
	h := newProvidersHandler(ss, fetchers)
	rg.GET("/providers", h.listProviders)
}

// listProviders returns every known provider with its configuration state and
// capabilities, plus the provider selected for each tier.
func (h *providersHandler) listProviders(c *gin.Context) {
	providers := make([]dto.ProviderInfoResponse, 0, len(h.fetchers))
	for _, name := range domain.AllProviders() {
		fetcher, ok := h.fetchers[name]
		if !ok {
			continue
		}
		providers = append(providers, dto.ProviderInfoResponse{
			Name:         string(name),
			DisplayName:  name.DisplayName(),
			Configured:   fetcher.Configured(),
			Capabilities: capabilityList(fetcher.Capabilities()),
		})
	}

	c.JSON(http.StatusOK, dto.ProvidersResponse{
		Success:   true,
		Providers: providers,
		Strategy:  dto.ToStrategyResponse(h.strategyService.Resolve()),
	})
}

func capabilityList(caps portsprov.Capabilities) []string {
	out := []string{}
	if caps.Latest {
		out = append(out, "latest")
	}
	if caps.Historical {
		out = append(out, "historical")
	}
	if caps.Timeseries {
		out = append(out, "timeseries")
	}
	return out
}
