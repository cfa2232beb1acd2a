package dto

import "github.com/shawqlabs/fxn_backend/internal/core/domain"

// QuotaResponse is a display-only estimate of a metered provider's remaining
// monthly calls.
type QuotaResponse struct {
	Provider         string `json:"provider"`
	MonthlyAllowance int64  `json:"monthlyAllowance"`
	UsedThisMonth    int64  `json:"usedThisMonth"`
	Remaining        int64  `json:"remaining"`
}

// DebugResponse is the body of the diagnostic endpoint.
type DebugResponse struct {
	Success      bool             `json:"success"`
	RecentRates  []RateResponse   `json:"recentRates"`
	MonthlyUsage map[string]int64 `json:"monthlyUsage"`
	Quota        *QuotaResponse   `json:"quota,omitempty"`
	MissingDates []string         `json:"missingDates"`
	Strategy     StrategyResponse `json:"strategy"`
}

// ToDebugResponse converts a domain.DebugSnapshot to DebugResponse DTO.
func ToDebugResponse(s *domain.DebugSnapshot) DebugResponse {
	usage := make(map[string]int64, len(s.MonthlyUsage))
	for p, n := range s.MonthlyUsage {
		usage[string(p)] = n
	}
	resp := DebugResponse{
		Success:      true,
		RecentRates:  ToListRateResponse(s.RecentRates),
		MonthlyUsage: usage,
		MissingDates: s.MissingDates,
		Strategy:     ToStrategyResponse(s.Strategy),
	}
	if s.Quota != nil {
		resp.Quota = &QuotaResponse{
			Provider:         string(s.Quota.Provider),
			MonthlyAllowance: s.Quota.MonthlyAllowance,
			UsedThisMonth:    s.Quota.UsedThisMonth,
			Remaining:        s.Quota.Remaining,
		}
	}
	return resp
}
