// Package providers defines the port implemented by external rate source
// adapters.
package providers

import (
	"context"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Capabilities flags which fetch modes a provider supports.
type Capabilities struct {
	Latest     bool
	Historical bool
	Timeseries bool
}

// RateFetcher is one external rate source. Every method returns either a
// normalized canonical TRY to USD rate or a *domain.ProviderError; no other
// error types escape an adapter. Each call, success or failure, emits one
// usage event through the adapter's UsageRecorder.
type RateFetcher interface {
	Name() domain.ProviderName
	Capabilities() Capabilities

	// Configured reports whether the credentials the provider needs are
	// present. Keyless providers always return true.
	Configured() bool

	// FetchLatest returns the most recently published rate.
	FetchLatest(ctx context.Context) (*domain.ProviderRate, error)

	// FetchHistorical returns the rate for one past reporting day.
	FetchHistorical(ctx context.Context, date time.Time) (*domain.ProviderRate, error)

	// FetchTimeseries returns canonical rates keyed by YYYY-MM-DD for an
	// inclusive date window.
	FetchTimeseries(ctx context.Context, start, end time.Time) (map[string]decimal.Decimal, error)
}

// UsageRecorder accepts usage events. Implementations must be non-blocking
// and must swallow their own failures.
type UsageRecorder interface {
	Record(ctx context.Context, ev domain.UsageEvent)
}
