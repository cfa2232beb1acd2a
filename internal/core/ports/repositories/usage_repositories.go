package repositories

import (
	"context"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
)

// UsageRepositoryFacade persists provider usage events. The table is
// append-only; rows are never updated.
type UsageRepositoryFacade interface {
	InsertUsage(ctx context.Context, ev domain.UsageEvent) error

	// CountByProvider returns per-provider event counts for created_at in
	// [from, to).
	CountByProvider(ctx context.Context, from, to time.Time) (map[domain.ProviderName]int64, error)
}
