package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProviderName identifies one external rate source. The set is closed:
// dispatch happens over these constants, never over free-form strings.
type ProviderName string

const (
	ProviderCurrencyFreaks ProviderName = "currencyfreaks"
	ProviderOXR            ProviderName = "oxr"
	ProviderAPILayer       ProviderName = "apilayer"
	ProviderFrankfurter    ProviderName = "frankfurter"

	// ProviderManual labels operator-entered rates; it is a rate source in
	// exchange_rates but never a fetch target.
	ProviderManual ProviderName = "manual"
)

// AllProviders lists every fetchable provider.
func AllProviders() []ProviderName {
	return []ProviderName{ProviderCurrencyFreaks, ProviderOXR, ProviderAPILayer, ProviderFrankfurter}
}

// DisplayName returns the customer-facing provider name.
func (p ProviderName) DisplayName() string {
	switch p {
	case ProviderCurrencyFreaks:
		return "CurrencyFreaks"
	case ProviderOXR:
		return "Open Exchange Rates"
	case ProviderAPILayer:
		return "APILayer"
	case ProviderFrankfurter:
		return "Frankfurter (ECB)"
	case ProviderManual:
		return "Manual"
	}
	return string(p)
}

// ErrorCode is the closed set of provider failure classes.
type ErrorCode string

const (
	CodeMissingAPIKey   ErrorCode = "missing_api_key"
	CodeQuotaReached    ErrorCode = "quota_reached"
	CodeRateUnavailable ErrorCode = "rate_unavailable"
	CodeNetworkError    ErrorCode = "network_error"
	CodeInvalidResponse ErrorCode = "invalid_response"
	CodeHTTPError       ErrorCode = "http_error"
	CodeProviderError   ErrorCode = "provider_error"
)

// ProviderError is the uniform failure shape for all provider adapters.
type ProviderError struct {
	Provider   ProviderName
	Code       ErrorCode
	HTTPStatus int // 0 when no HTTP response was received
	Message    string
}

func (e *ProviderError) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Provider, e.Code, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

// ProviderRate is the uniform success shape for all provider adapters. Rate is
// always the canonical TRY→USD value after provider-specific normalization.
type ProviderRate struct {
	Rate     decimal.Decimal
	USDToTRY decimal.Decimal // informational inverse, zero when not derivable
	Source   ProviderName
}

// UsageKind classifies an outbound provider call.
type UsageKind string

const (
	UsageLatest     UsageKind = "latest"
	UsageHistorical UsageKind = "historical"
	UsageTimeseries UsageKind = "timeseries"
)
