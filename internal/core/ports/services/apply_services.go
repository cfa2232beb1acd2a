package services

import (
	"context"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
)

// ApplySvcFacade runs the spend conversion engine over a date window.
// Idempotent: re-running over an unchanged window and rate set yields the
// same result with no net data change.
type ApplySvcFacade interface {
	Apply(ctx context.Context, store string, start, end time.Time) (*domain.ApplyResult, error)
}
