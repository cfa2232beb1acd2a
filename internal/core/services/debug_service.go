package services

import (
	"context"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsrepo "github.com/shawqlabs/fxn_backend/internal/core/ports/repositories"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// currencyFreaksMonthlyAllowance is the metered provider's free-plan monthly
// call budget. A display estimate only, never a throttle.
const currencyFreaksMonthlyAllowance = 1000

// recentRatesLimit and missingDatesLookbackDays bound the debug payload.
const (
	recentRatesLimit         = 30
	missingDatesLookbackDays = 30
)

type debugService struct {
	rateRepo  portsrepo.RateRepositoryFacade
	usageRepo portsrepo.UsageRepositoryFacade
	strategy  portssvc.StrategySvcFacade
	pair      domain.CurrencyPair
}

// NewDebugService creates a new debug service.
func NewDebugService(rateRepo portsrepo.RateRepositoryFacade, usageRepo portsrepo.UsageRepositoryFacade, strategy portssvc.StrategySvcFacade) portssvc.DebugSvcFacade {
	return &debugService{
		rateRepo:  rateRepo,
		usageRepo: usageRepo,
		strategy:  strategy,
		pair:      domain.PairTRYUSD,
	}
}

func (s *debugService) Snapshot(ctx context.Context) (*domain.DebugSnapshot, error) {
	recent, err := s.rateRepo.ListRecent(ctx, s.pair, recentRatesLimit)
	if err != nil {
		return nil, err
	}

	monthStart, nextMonth := dateutil.MonthWindow(time.Now())
	usage, err := s.usageRepo.CountByProvider(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	used := usage[domain.ProviderCurrencyFreaks]
	remaining := currencyFreaksMonthlyAllowance - used
	if remaining < 0 {
		remaining = 0
	}

	// Missing dates over the recent window, excluding today: today's rate is
	// legitimately absent until tomorrow.
	yesterday := dateutil.Yesterday()
	windowStart := dateutil.AddDays(yesterday, -(missingDatesLookbackDays - 1))
	existing, err := s.rateRepo.ExistingDates(ctx, s.pair, windowStart, yesterday)
	if err != nil {
		return nil, err
	}
	missing := []string{}
	for _, d := range dateutil.EachDay(windowStart, yesterday) {
		if _, ok := existing[dateutil.Format(d)]; !ok {
			missing = append(missing, dateutil.Format(d))
		}
	}

	return &domain.DebugSnapshot{
		RecentRates:  recent,
		MonthlyUsage: usage,
		Quota: &domain.QuotaEstimate{
			Provider:         domain.ProviderCurrencyFreaks,
			MonthlyAllowance: currencyFreaksMonthlyAllowance,
			UsedThisMonth:    used,
			Remaining:        remaining,
		},
		MissingDates: missing,
		Strategy:     s.strategy.Resolve(),
	}, nil
}
