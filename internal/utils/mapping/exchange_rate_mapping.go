package mapping

import (
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/models"
)

// ToModelExchangeRate converts a domain RateRecord to a model ExchangeRate.
func ToModelExchangeRate(d domain.RateRecord) models.ExchangeRate {
	return models.ExchangeRate{
		FromCurrency: d.FromCurrency,
		ToCurrency:   d.ToCurrency,
		Rate:         d.Rate,
		Date:         d.Date,
		Source:       string(d.Source),
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain RateRecord.
func ToDomainExchangeRate(m models.ExchangeRate) domain.RateRecord {
	return domain.RateRecord{
		FromCurrency: m.FromCurrency,
		ToCurrency:   m.ToCurrency,
		Rate:         m.Rate,
		Date:         m.Date,
		Source:       domain.ProviderName(m.Source),
		CreatedAt:    m.CreatedAt,
	}
}
