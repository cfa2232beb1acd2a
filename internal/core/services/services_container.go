package services

import (
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	portsrepo "github.com/shawqlabs/fxn_backend/internal/core/ports/repositories"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	fetchers map[domain.ProviderName]portsprov.RateFetcher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Strategy = NewStrategyService(cfg)
	container.Rate = NewRateService(repos.RateRepo, container.Strategy, fetchers, cfg.RateCacheTTL)
	container.Apply = NewApplyService(repos.SpendRepo, repos.RateRepo, cfg.ApplyMaxWindowDays)
	container.Debug = NewDebugService(repos.RateRepo, repos.UsageRepo, container.Strategy)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.StrategySvcFacade = (*strategyService)(nil)
	_ portssvc.RateSvcFacade     = (*rateService)(nil)
	_ portssvc.ApplySvcFacade    = (*applyService)(nil)
	_ portssvc.DebugSvcFacade    = (*debugService)(nil)
	_ portsprov.UsageRecorder    = (*UsageLogger)(nil)
)
