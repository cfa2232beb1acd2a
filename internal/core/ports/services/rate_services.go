package services

import (
	"context"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSvcFacade resolves, fetches and stores canonical TRY to USD rates.
type RateSvcFacade interface {
	// Resolve returns the rate for a reporting day, consulting the in-memory
	// cache, the durable store and finally the configured providers with tier
	// fallback. A lookup for today is remapped to yesterday. Provider
	// failures are collapsed into (nil, nil); only store failures surface as
	// errors. The no-rate verdict is negatively cached.
	Resolve(ctx context.Context, date time.Time) (*domain.RateRecord, error)

	// Stored returns the stored record for a day without contacting any
	// provider. Wraps apperrors.ErrNotFound on miss.
	Stored(ctx context.Context, date time.Time) (*domain.RateRecord, error)

	// FetchForTier fetches a single day through the provider selected for the
	// given tier, persists it and returns it. Unlike Resolve it preserves the
	// precise *domain.ProviderError so callers can report exact failure
	// causes. The daily tier only accepts yesterday.
	FetchForTier(ctx context.Context, date time.Time, tier domain.Tier) (*domain.RateRecord, error)

	// SetManual writes an operator-supplied canonical rate for each given
	// day. Without overwrite, any day that already has a record aborts the
	// whole write: no rows change and the conflicting records are returned
	// alongside an error wrapping apperrors.ErrDuplicate.
	SetManual(ctx context.Context, dates []time.Time, rate decimal.Decimal, overwrite bool) (written []domain.RateRecord, conflicts []domain.RateRecord, err error)

	// MissingDates lists the days in [start, end] without a stored record.
	MissingDates(ctx context.Context, start, end time.Time) ([]time.Time, error)

	// BackfillRange fetches rates for the missing days of [start, end]
	// through the given tier, using a single timeseries call when the
	// provider supports it, otherwise one historical call per day, stopping
	// once maxCalls provider calls were spent or the provider reports an
	// exhausted quota.
	BackfillRange(ctx context.Context, start, end time.Time, tier domain.Tier, maxCalls int) (*domain.BackfillRangeResult, error)
}
