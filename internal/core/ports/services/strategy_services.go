package services

import "github.com/shawqlabs/fxn_backend/internal/core/domain"

// StrategySvcFacade derives the provider selection for all tiers from
// process configuration.
type StrategySvcFacade interface {
	Resolve() domain.ProviderStrategy
}
