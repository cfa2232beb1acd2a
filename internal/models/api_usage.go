package models

import "time"

// ExchangeRateAPIUsage mirrors one row of the append-only
// exchange_rate_api_usage table.
type ExchangeRateAPIUsage struct {
	UsageID      string     `json:"usageID"`
	Provider     string     `json:"provider"`
	Kind         string     `json:"kind"`
	Date         *time.Time `json:"date,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Status       string     `json:"status"`
	HTTPStatus   *int       `json:"httpStatus,omitempty"`
	ErrorCode    *string    `json:"errorCode,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
