// Package providers contains one adapter per external exchange-rate source.
// Every adapter normalizes its provider's response into the canonical TRY to
// USD rate (USD per one TRY), maps failures onto the closed error-code set
// and emits one usage event per outbound call.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// base carries the pieces every adapter shares.
type base struct {
	client *http.Client
	usage  portsprov.UsageRecorder
}

func newBase(timeout time.Duration, usage portsprov.UsageRecorder) base {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return base{
		client: &http.Client{Timeout: timeout},
		usage:  usage,
	}
}

// record emits a usage event. Logging is best-effort; a nil recorder is
// tolerated so adapters stay usable in isolation.
func (b base) record(ctx context.Context, ev domain.UsageEvent) {
	if b.usage == nil {
		return
	}
	b.usage.Record(ctx, ev)
}

// getJSON performs req and decodes the 2xx response body into out. On
// failure it returns the uniform provider error; the HTTP status is returned
// either way when a response was received.
func (b base) getJSON(ctx context.Context, provider domain.ProviderName, req *http.Request, out any) (int, *domain.ProviderError) {
	resp, err := b.client.Do(req.WithContext(ctx))
	if err != nil {
		return 0, &domain.ProviderError{
			Provider: provider,
			Code:     domain.CodeNetworkError,
			Message:  fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, &domain.ProviderError{
			Provider: provider,
			Code:     domain.CodeNetworkError,
			Message:  fmt.Sprintf("reading response: %v", err),
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return resp.StatusCode, &domain.ProviderError{
			Provider:   provider,
			Code:       domain.CodeQuotaReached,
			HTTPStatus: resp.StatusCode,
			Message:    "provider quota reached",
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &domain.ProviderError{
			Provider:   provider,
			Code:       domain.CodeHTTPError,
			HTTPStatus: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, &domain.ProviderError{
			Provider:   provider,
			Code:       domain.CodeInvalidResponse,
			HTTPStatus: resp.StatusCode,
			Message:    fmt.Sprintf("decoding response: %v", err),
		}
	}
	return resp.StatusCode, nil
}

// invertUSDBase converts a USD-base quote (1 USD = x TRY) into the canonical
// TRY to USD rate.
func invertUSDBase(provider domain.ProviderName, status int, usdToTry decimal.Decimal) (*domain.ProviderRate, *domain.ProviderError) {
	if usdToTry.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ProviderError{
			Provider:   provider,
			Code:       domain.CodeInvalidResponse,
			HTTPStatus: status,
			Message:    fmt.Sprintf("non-positive TRY quote %s", usdToTry),
		}
	}
	return &domain.ProviderRate{
		Rate:     one.Div(usdToTry),
		USDToTRY: usdToTry,
		Source:   provider,
	}, nil
}

func missingKeyErr(provider domain.ProviderName) *domain.ProviderError {
	return &domain.ProviderError{
		Provider: provider,
		Code:     domain.CodeMissingAPIKey,
		Message:  "API key not configured",
	}
}

func notSupportedErr(provider domain.ProviderName, what string) *domain.ProviderError {
	return &domain.ProviderError{
		Provider: provider,
		Code:     domain.CodeProviderError,
		Message:  what + " is not supported by this provider",
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
