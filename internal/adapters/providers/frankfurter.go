package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
	"github.com/shopspring/decimal"
)

// Frankfurter serves ECB reference rates and needs no API key. The API
// substitutes the closest business day for weekends and holidays; a response
// whose date differs from the requested one is rejected as rate_unavailable
// so a Friday close is never silently stored under a Saturday.
type Frankfurter struct {
	base
	baseURL string
}

// NewFrankfurter creates the Frankfurter (ECB) adapter.
func NewFrankfurter(timeout time.Duration, usage portsprov.UsageRecorder) *Frankfurter {
	return &Frankfurter{
		base:    newBase(timeout, usage),
		baseURL: "https://api.frankfurter.app",
	}
}

func (p *Frankfurter) Name() domain.ProviderName { return domain.ProviderFrankfurter }

func (p *Frankfurter) Capabilities() portsprov.Capabilities {
	return portsprov.Capabilities{Historical: true}
}

func (p *Frankfurter) Configured() bool { return true }

type frankfurterResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (p *Frankfurter) FetchLatest(ctx context.Context) (*domain.ProviderRate, error) {
	return nil, notSupportedErr(p.Name(), "latest fetch")
}

func (p *Frankfurter) FetchTimeseries(ctx context.Context, start, end time.Time) (map[string]decimal.Decimal, error) {
	return nil, notSupportedErr(p.Name(), "timeseries fetch")
}

func (p *Frankfurter) FetchHistorical(ctx context.Context, date time.Time) (*domain.ProviderRate, error) {
	day := dateutil.Format(date)
	reqURL := fmt.Sprintf("%s/%s?from=TRY&to=USD", p.baseURL, day)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		perr := &domain.ProviderError{Provider: p.Name(), Code: domain.CodeNetworkError, Message: err.Error()}
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	var body frankfurterResponse
	status, perr := p.getJSON(ctx, p.Name(), req, &body)
	if perr != nil {
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	if body.Date != day {
		perr := &domain.ProviderError{
			Provider:   p.Name(),
			Code:       domain.CodeRateUnavailable,
			HTTPStatus: status,
			Message:    fmt.Sprintf("no ECB rate published for %s (closest business day is %s)", day, body.Date),
		}
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	rate, ok := body.Rates["USD"]
	if !ok || rate.LessThanOrEqual(decimal.Zero) {
		perr := &domain.ProviderError{
			Provider:   p.Name(),
			Code:       domain.CodeInvalidResponse,
			HTTPStatus: status,
			Message:    "response is missing a usable USD rate",
		}
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	p.record(ctx, domain.NewUsageSuccess(p.Name(), domain.UsageHistorical, &date, status))
	return &domain.ProviderRate{
		Rate:     rate,
		USDToTRY: one.Div(rate),
		Source:   p.Name(),
	}, nil
}
