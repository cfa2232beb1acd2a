package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPair is a directional currency pair.
type CurrencyPair struct {
	From string
	To   string
}

// PairTRYUSD is the only pair this service stores: USD per one TRY.
var PairTRYUSD = CurrencyPair{From: "TRY", To: "USD"}

// RateRecord is one canonical rate for one reporting day. Date is the local
// business day the rate applies to, not a fetch timestamp.
type RateRecord struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	Date         time.Time
	Source       ProviderName
	CreatedAt    time.Time
}

// USDToTRY returns the inverse quote, zero when the rate itself is zero.
func (r RateRecord) USDToTRY() decimal.Decimal {
	if r.Rate.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(r.Rate)
}
