package dto

import (
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
	"github.com/shopspring/decimal"
)

// RateResponse is the API shape of one stored rate. Rate is USD per one TRY;
// UsdToTry is the informational inverse.
type RateResponse struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	UsdToTry     decimal.Decimal `json:"usdToTry"`
	Date         string          `json:"date"`
	Source       string          `json:"source"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToRateResponse converts a domain.RateRecord to RateResponse DTO.
func ToRateResponse(r *domain.RateRecord) RateResponse {
	return RateResponse{
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		Rate:         r.Rate,
		UsdToTry:     r.USDToTRY(),
		Date:         dateutil.Format(r.Date),
		Source:       string(r.Source),
		CreatedAt:    r.CreatedAt,
	}
}

// ToListRateResponse converts a slice of domain.RateRecord to DTOs.
func ToListRateResponse(rates []domain.RateRecord) []RateResponse {
	responses := make([]RateResponse, len(rates))
	for i := range rates {
		responses[i] = ToRateResponse(&rates[i])
	}
	return responses
}

// ManualRateRequest sets operator-supplied rates for one or more days. Days
// come either as an explicit list or as an inclusive range. Exactly one of
// TryToUsd and UsdToTry must be set; UsdToTry is inverted before storage.
type ManualRateRequest struct {
	Dates     []string         `json:"dates" binding:"omitempty,dive,dateymd"`
	StartDate string           `json:"startDate" binding:"omitempty,dateymd"`
	EndDate   string           `json:"endDate" binding:"omitempty,dateymd"`
	TryToUsd  *decimal.Decimal `json:"tryToUsd"`
	UsdToTry  *decimal.Decimal `json:"usdToTry"`
	Overwrite bool             `json:"overwrite"`
	Store     string           `json:"store"`
}

// ManualRateResponse reports the written rates and the conversion run that
// followed them.
type ManualRateResponse struct {
	Success bool           `json:"success"`
	Written []RateResponse `json:"written"`
	Apply   *ApplyResponse `json:"apply,omitempty"`
}
