package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate mirrors one row of the exchange_rates table. The pair
// (from_currency, to_currency, date) is the primary key; writes are
// insert-or-replace.
type ExchangeRate struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	Date         time.Time       `json:"date"`
	Source       string          `json:"source"`
	CreatedAt    time.Time       `json:"createdAt"`
}
