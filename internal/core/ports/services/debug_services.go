package services

import (
	"context"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
)

// DebugSvcFacade assembles the operational snapshot for the debug endpoint.
type DebugSvcFacade interface {
	Snapshot(ctx context.Context) (*domain.DebugSnapshot, error)
}
