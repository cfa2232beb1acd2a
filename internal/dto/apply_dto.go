package dto

import (
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// ApplyRequest triggers a conversion run. Either Date (single day) or
// StartDate+EndDate (inclusive window) selects the rows; Store defaults to
// the configured tenant when empty.
type ApplyRequest struct {
	Store     string `json:"store"`
	Date      string `json:"date" binding:"omitempty,dateymd"`
	StartDate string `json:"startDate" binding:"omitempty,dateymd"`
	EndDate   string `json:"endDate" binding:"omitempty,dateymd"`
}

// TableApplyStatsResponse is one table's share of a conversion run.
type TableApplyStatsResponse struct {
	Table       string `json:"table"`
	Candidates  int64  `json:"candidates"`
	Convertible int64  `json:"convertible"`
	Updated     int64  `json:"updated"`
}

// ApplyTotalsResponse sums the per-table stats.
type ApplyTotalsResponse struct {
	Candidates  int64 `json:"candidates"`
	Convertible int64 `json:"convertible"`
	Updated     int64 `json:"updated"`
}

// ApplyResponse is the outcome of one conversion run.
type ApplyResponse struct {
	Success          bool                      `json:"success"`
	Store            string                    `json:"store"`
	StartDate        string                    `json:"startDate"`
	EndDate          string                    `json:"endDate"`
	Tables           []TableApplyStatsResponse `json:"tables"`
	Totals           ApplyTotalsResponse       `json:"totals"`
	MissingRateDates []string                  `json:"missingRateDates"`
}

// ToApplyResponse converts a domain.ApplyResult to ApplyResponse DTO.
func ToApplyResponse(r *domain.ApplyResult) *ApplyResponse {
	tables := make([]TableApplyStatsResponse, len(r.Tables))
	for i, t := range r.Tables {
		tables[i] = TableApplyStatsResponse{
			Table:       t.Table,
			Candidates:  t.Candidates,
			Convertible: t.Convertible,
			Updated:     t.Updated,
		}
	}
	return &ApplyResponse{
		Success:   true,
		Store:     r.Store,
		StartDate: dateutil.Format(r.StartDate),
		EndDate:   dateutil.Format(r.EndDate),
		Tables:    tables,
		Totals: ApplyTotalsResponse{
			Candidates:  r.Totals.Candidates,
			Convertible: r.Totals.Convertible,
			Updated:     r.Totals.Updated,
		},
		MissingRateDates: r.MissingRateDates,
	}
}
