package mapping

import (
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/models"
)

// ToModelAPIUsage converts a domain UsageEvent to a model row.
func ToModelAPIUsage(d domain.UsageEvent) models.ExchangeRateAPIUsage {
	m := models.ExchangeRateAPIUsage{
		UsageID:    d.UsageID,
		Provider:   string(d.Provider),
		Kind:       string(d.Kind),
		Date:       d.Date,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Status:     d.Status,
		HTTPStatus: d.HTTPStatus,
		CreatedAt:  d.CreatedAt,
	}
	if d.ErrorCode != nil {
		code := string(*d.ErrorCode)
		m.ErrorCode = &code
	}
	if d.ErrorMessage != "" {
		msg := d.ErrorMessage
		m.ErrorMessage = &msg
	}
	return m
}

// ToDomainAPIUsage converts a model row to a domain UsageEvent.
func ToDomainAPIUsage(m models.ExchangeRateAPIUsage) domain.UsageEvent {
	d := domain.UsageEvent{
		UsageID:    m.UsageID,
		Provider:   domain.ProviderName(m.Provider),
		Kind:       domain.UsageKind(m.Kind),
		Date:       m.Date,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Status:     m.Status,
		HTTPStatus: m.HTTPStatus,
		CreatedAt:  m.CreatedAt,
	}
	if m.ErrorCode != nil {
		code := domain.ErrorCode(*m.ErrorCode)
		d.ErrorCode = &code
	}
	if m.ErrorMessage != nil {
		d.ErrorMessage = *m.ErrorMessage
	}
	return d
}
