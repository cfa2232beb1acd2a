package dto

import "github.com/shawqlabs/fxn_backend/internal/core/domain"

// ProviderInfoResponse describes one rate provider's readiness.
type ProviderInfoResponse struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"displayName"`
	Configured   bool     `json:"configured"`
	Capabilities []string `json:"capabilities"`
}

// StrategyResponse is the resolved provider selection per tier. Sources tags
// how each slot was chosen (env, inferred, default, env_invalid, none).
type StrategyResponse struct {
	Daily             string            `json:"daily"`
	PrimaryBackfill   string            `json:"primaryBackfill,omitempty"`
	SecondaryBackfill string            `json:"secondaryBackfill,omitempty"`
	Sources           map[string]string `json:"sources"`
}

// ProvidersResponse is the body of the provider listing endpoint.
type ProvidersResponse struct {
	Success   bool                   `json:"success"`
	Providers []ProviderInfoResponse `json:"providers"`
	Strategy  StrategyResponse       `json:"strategy"`
}

// ToStrategyResponse converts a domain.ProviderStrategy to StrategyResponse DTO.
func ToStrategyResponse(s domain.ProviderStrategy) StrategyResponse {
	sources := make(map[string]string, len(s.Sources))
	for tier, src := range s.Sources {
		sources[string(tier)] = string(src)
	}
	return StrategyResponse{
		Daily:             string(s.Daily),
		PrimaryBackfill:   string(s.PrimaryBackfill),
		SecondaryBackfill: string(s.SecondaryBackfill),
		Sources:           sources,
	}
}
