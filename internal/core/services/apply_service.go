package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsrepo "github.com/shawqlabs/fxn_backend/internal/core/ports/repositories"
	portssvc "github.com/shawqlabs/fxn_backend/internal/core/ports/services"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// applyService runs the spend conversion engine. Missing rates never fail a
// run; the affected dates are reported so the caller can backfill them.
type applyService struct {
	spendRepo     portsrepo.SpendRepositoryFacade
	rateRepo      portsrepo.RateRepositoryFacade
	maxWindowDays int
	pair          domain.CurrencyPair
}

// NewApplyService creates a new apply service.
func NewApplyService(spendRepo portsrepo.SpendRepositoryFacade, rateRepo portsrepo.RateRepositoryFacade, maxWindowDays int) portssvc.ApplySvcFacade {
	if maxWindowDays <= 0 {
		maxWindowDays = 370
	}
	return &applyService{
		spendRepo:     spendRepo,
		rateRepo:      rateRepo,
		maxWindowDays: maxWindowDays,
		pair:          domain.PairTRYUSD,
	}
}

func (s *applyService) Apply(ctx context.Context, store string, start, end time.Time) (*domain.ApplyResult, error) {
	if store == "" {
		return nil, apperrors.NewValidationError("store is required")
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("startDate must not be after endDate")
	}
	if days := dateutil.DaysBetween(start, end) + 1; days > s.maxWindowDays {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"window of %d days exceeds the maximum of %d days", days, s.maxWindowDays))
	}

	tables, err := s.spendRepo.ApplyRates(ctx, store, start, end)
	if err != nil {
		return nil, err
	}

	existing, err := s.rateRepo.ExistingDates(ctx, s.pair, start, end)
	if err != nil {
		return nil, err
	}

	result := &domain.ApplyResult{
		Store:            store,
		StartDate:        start,
		EndDate:          end,
		Tables:           tables,
		MissingRateDates: []string{},
	}
	for _, ts := range tables {
		result.Totals.Candidates += ts.Candidates
		result.Totals.Convertible += ts.Convertible
		result.Totals.Updated += ts.Updated
	}
	for _, d := range dateutil.EachDay(start, end) {
		if _, ok := existing[dateutil.Format(d)]; !ok {
			result.MissingRateDates = append(result.MissingRateDates, dateutil.Format(d))
		}
	}
	return result, nil
}
