package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	portsrepo "github.com/shawqlabs/fxn_backend/internal/core/ports/repositories"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
	"github.com/shopspring/decimal"
)

// rateService resolves canonical TRY to USD rates through a layered lookup:
// in-memory TTL cache, durable store, then the configured providers with
// tier fallback. Providers are tried strictly in sequence; there is no
// fan-out, so fallback order is preserved.
type rateService struct {
	rateRepo portsrepo.RateRepositoryFacade
	strategy portssvc.StrategySvcFacade
	fetchers map[domain.ProviderName]portsprov.RateFetcher
	cache    *rateCache
	pair     domain.CurrencyPair
}

// NewRateService creates a new rate service.
func NewRateService(
	rateRepo portsrepo.RateRepositoryFacade,
	strategy portssvc.StrategySvcFacade,
	fetchers map[domain.ProviderName]portsprov.RateFetcher,
	cacheTTL time.Duration,
) portssvc.RateSvcFacade {
	return &rateService{
		rateRepo: rateRepo,
		strategy: strategy,
		fetchers: fetchers,
		cache:    newRateCache(cacheTTL),
		pair:     domain.PairTRYUSD,
	}
}

func (s *rateService) Resolve(ctx context.Context, date time.Time) (*domain.RateRecord, error) {
	// Today's close is not yet published; look up yesterday instead.
	eff := dateutil.EffectiveLookupDate(date)

	if entry, ok := s.cache.Get(s.pair, eff); ok {
		return entry.record, nil
	}

	rec, err := s.rateRepo.GetRate(ctx, s.pair, eff)
	if err == nil {
		s.cache.SetHit(s.pair, *rec)
		return rec, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		// Store failures are fatal to the containing request; only provider
		// failures collapse into "no rate".
		return nil, err
	}

	strat := s.strategy.Resolve()

	// attempted guards against calling the same provider twice in one
	// resolution, e.g. when the daily source also serves as primary backfill.
	attempted := map[domain.ProviderName]bool{}
	var fetched *domain.ProviderRate

	if eff.Equal(dateutil.Yesterday()) && strat.Daily != "" {
		attempted[strat.Daily] = true
		fetched = s.fetchQuietly(ctx, strat.Daily, true, eff)
	}
	if fetched == nil && strat.PrimaryBackfill != "" && !attempted[strat.PrimaryBackfill] {
		attempted[strat.PrimaryBackfill] = true
		fetched = s.fetchQuietly(ctx, strat.PrimaryBackfill, false, eff)
	}
	if fetched == nil && strat.SecondaryBackfill != "" && !attempted[strat.SecondaryBackfill] {
		attempted[strat.SecondaryBackfill] = true
		fetched = s.fetchQuietly(ctx, strat.SecondaryBackfill, false, eff)
	}

	if fetched == nil {
		s.cache.SetMiss(s.pair, eff)
		return nil, nil
	}
	return s.persist(ctx, eff, fetched)
}

// fetchQuietly performs one provider call and swallows its error: the
// adapter has already recorded the usage event breadcrumb.
func (s *rateService) fetchQuietly(ctx context.Context, provider domain.ProviderName, latest bool, date time.Time) *domain.ProviderRate {
	fetcher, ok := s.fetchers[provider]
	if !ok {
		return nil
	}
	var pr *domain.ProviderRate
	var err error
	if latest {
		pr, err = fetcher.FetchLatest(ctx)
	} else {
		pr, err = fetcher.FetchHistorical(ctx, date)
	}
	if err != nil {
		return nil
	}
	return pr
}

func (s *rateService) persist(ctx context.Context, date time.Time, pr *domain.ProviderRate) (*domain.RateRecord, error) {
	rec := domain.RateRecord{
		FromCurrency: s.pair.From,
		ToCurrency:   s.pair.To,
		Rate:         pr.Rate,
		Date:         date,
		Source:       pr.Source,
		CreatedAt:    time.Now(),
	}
	if err := s.rateRepo.UpsertRate(ctx, rec); err != nil {
		return nil, err
	}
	// The cache must reflect the write before the resolver returns.
	s.cache.SetHit(s.pair, rec)
	return &rec, nil
}

func (s *rateService) Stored(ctx context.Context, date time.Time) (*domain.RateRecord, error) {
	rec, err := s.rateRepo.GetRate(ctx, s.pair, date)
	if err != nil {
		return nil, err
	}
	s.cache.SetHit(s.pair, *rec)
	return rec, nil
}

func (s *rateService) FetchForTier(ctx context.Context, date time.Time, tier domain.Tier) (*domain.RateRecord, error) {
	strat := s.strategy.Resolve()
	provider := strat.ProviderForTier(tier)
	if provider == "" {
		return nil, apperrors.NewAppError(500,
			fmt.Sprintf("no provider is configured for the %s tier", tier), apperrors.ErrNotConfigured)
	}
	fetcher, ok := s.fetchers[provider]
	if !ok {
		return nil, apperrors.NewAppError(500,
			fmt.Sprintf("provider %s has no adapter", provider), apperrors.ErrNotConfigured)
	}

	var pr *domain.ProviderRate
	var err error
	if tier == domain.TierPrimaryDaily {
		// Asking for today on the daily tier means yesterday's close, so
		// remap before checking; anything older needs a backfill tier.
		date = dateutil.EffectiveLookupDate(date)
		if !date.Equal(dateutil.Yesterday()) {
			return nil, apperrors.NewValidationError(fmt.Sprintf(
				"the daily tier only serves yesterday (%s in GMT+3); use a backfill tier for older dates",
				dateutil.Format(dateutil.Yesterday())))
		}
		pr, err = fetcher.FetchLatest(ctx)
	} else {
		pr, err = fetcher.FetchHistorical(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, date, pr)
}

func (s *rateService) SetManual(ctx context.Context, dates []time.Time, rate decimal.Decimal, overwrite bool) ([]domain.RateRecord, []domain.RateRecord, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, nil, apperrors.NewValidationError("manual rate must be positive")
	}
	if len(dates) == 0 {
		return nil, nil, apperrors.NewValidationError("no dates to write")
	}

	if !overwrite {
		first, last := dates[0], dates[0]
		for _, d := range dates[1:] {
			if d.Before(first) {
				first = d
			}
			if d.After(last) {
				last = d
			}
		}
		stored, err := s.rateRepo.ListWindow(ctx, s.pair, first, last)
		if err != nil {
			return nil, nil, err
		}
		requested := make(map[string]struct{}, len(dates))
		for _, d := range dates {
			requested[dateutil.Format(d)] = struct{}{}
		}
		var conflicts []domain.RateRecord
		for _, rec := range stored {
			if _, ok := requested[dateutil.Format(rec.Date)]; ok {
				conflicts = append(conflicts, rec)
			}
		}
		if len(conflicts) > 0 {
			return nil, conflicts, apperrors.NewAppError(409,
				"a rate already exists for one or more of the requested dates; set overwrite to replace it",
				apperrors.ErrDuplicate)
		}
	}

	written := make([]domain.RateRecord, 0, len(dates))
	for _, d := range dates {
		rec := domain.RateRecord{
			FromCurrency: s.pair.From,
			ToCurrency:   s.pair.To,
			Rate:         rate,
			Date:         d,
			Source:       domain.ProviderManual,
			CreatedAt:    time.Now(),
		}
		if err := s.rateRepo.UpsertRate(ctx, rec); err != nil {
			return written, nil, err
		}
		s.cache.SetHit(s.pair, rec)
		written = append(written, rec)
	}
	return written, nil, nil
}

func (s *rateService) MissingDates(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	existing, err := s.rateRepo.ExistingDates(ctx, s.pair, start, end)
	if err != nil {
		return nil, err
	}
	var missing []time.Time
	for _, d := range dateutil.EachDay(start, end) {
		if _, ok := existing[dateutil.Format(d)]; !ok {
			missing = append(missing, d)
		}
	}
	return missing, nil
}

func (s *rateService) BackfillRange(ctx context.Context, start, end time.Time, tier domain.Tier, maxCalls int) (*domain.BackfillRangeResult, error) {
	if end.Before(start) {
		return nil, apperrors.NewValidationError("start date must not be after end date")
	}
	if tier == domain.TierPrimaryDaily {
		return nil, apperrors.NewValidationError("the daily tier cannot backfill a range; use a backfill tier")
	}
	if maxCalls <= 0 {
		maxCalls = 1
	}

	missing, err := s.MissingDates(ctx, start, end)
	if err != nil {
		return nil, err
	}
	res := &domain.BackfillRangeResult{
		Requested:     dateutil.DaysBetween(start, end) + 1,
		AlreadyStored: dateutil.DaysBetween(start, end) + 1 - len(missing),
	}
	if len(missing) == 0 {
		return res, nil
	}

	strat := s.strategy.Resolve()
	provider := strat.ProviderForTier(tier)
	if provider == "" {
		return nil, apperrors.NewAppError(500,
			fmt.Sprintf("no provider is configured for the %s tier", tier), apperrors.ErrNotConfigured)
	}
	fetcher, ok := s.fetchers[provider]
	if !ok {
		return nil, apperrors.NewAppError(500,
			fmt.Sprintf("provider %s has no adapter", provider), apperrors.ErrNotConfigured)
	}

	// One timeseries call covers the whole span when the provider supports
	// it; per-day historical calls are the fallback.
	if fetcher.Capabilities().Timeseries && len(missing) > 1 {
		res.CallsUsed++
		rates, err := fetcher.FetchTimeseries(ctx, missing[0], missing[len(missing)-1])
		if err == nil {
			for _, d := range missing {
				canonical, ok := rates[dateutil.Format(d)]
				if !ok {
					res.Failed++
					res.FailedDates = append(res.FailedDates, dateutil.Format(d))
					continue
				}
				if _, err := s.persist(ctx, d, &domain.ProviderRate{Rate: canonical, Source: provider}); err != nil {
					return res, err
				}
				res.Fetched++
			}
			return res, nil
		}
	}

	for _, d := range missing {
		if res.CallsUsed >= maxCalls {
			res.StoppedEarly = true
			break
		}
		res.CallsUsed++
		pr, err := fetcher.FetchHistorical(ctx, d)
		if err != nil {
			res.Failed++
			res.FailedDates = append(res.FailedDates, dateutil.Format(d))
			var perr *domain.ProviderError
			if errors.As(err, &perr) && (perr.Code == domain.CodeQuotaReached || perr.Code == domain.CodeMissingAPIKey) {
				// Further calls cannot succeed this run.
				res.StoppedEarly = true
				break
			}
			continue
		}
		if _, err := s.persist(ctx, d, pr); err != nil {
			return res, err
		}
		res.Fetched++
	}
	return res, nil
}
