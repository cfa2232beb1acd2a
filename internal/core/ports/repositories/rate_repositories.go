package repositories

import (
	"context"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
)

// RateRepositoryFacade is the durable store of canonical rates, keyed by
// (from, to, date).
type RateRepositoryFacade interface {
	// GetRate returns the record for a pair and day, or an error wrapping
	// apperrors.ErrNotFound.
	GetRate(ctx context.Context, pair domain.CurrencyPair, date time.Time) (*domain.RateRecord, error)

	// UpsertRate inserts or replaces the record for its pair and day. Safe
	// under concurrent callers resolving the same date; last writer wins.
	UpsertRate(ctx context.Context, rec domain.RateRecord) error

	// ListRecent returns up to limit records for the pair, newest day first.
	ListRecent(ctx context.Context, pair domain.CurrencyPair, limit int) ([]domain.RateRecord, error)

	// ListWindow returns all records for the pair within [start, end].
	ListWindow(ctx context.Context, pair domain.CurrencyPair, start, end time.Time) ([]domain.RateRecord, error)

	// ExistingDates returns the set of days in [start, end] that have a
	// record, keyed by YYYY-MM-DD.
	ExistingDates(ctx context.Context, pair domain.CurrencyPair, start, end time.Time) (map[string]struct{}, error)
}
