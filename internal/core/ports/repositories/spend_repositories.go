package repositories

import (
	"context"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
)

// SpendRepositoryFacade rewrites the derived currency columns of the three
// ad-metric tables from their _original columns. The tables are written by
// the Meta sync pipeline; this facade only touches spend, conversion_value
// and cost_per_link_click, and only for rows whose original currency is TRY
// (a NULL original_currency counts as TRY, matching the sync pipeline's
// guarantee).
type SpendRepositoryFacade interface {
	// ApplyRates runs the rewrite for one store over [start, end] inside a
	// single transaction and returns per-table stats. Rows whose date has no
	// stored rate are counted as candidates but left untouched.
	ApplyRates(ctx context.Context, store string, start, end time.Time) ([]domain.TableApplyStats, error)
}
