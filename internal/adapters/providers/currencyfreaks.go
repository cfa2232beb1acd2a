package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsprov "github.com/shawqlabs/fxn_backend/internal/core/ports/providers"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
	"github.com/shopspring/decimal"
)

// CurrencyFreaks is the metered primary provider. All quotes are USD-base
// (1 USD = x TRY), so the canonical rate is 1/x.
type CurrencyFreaks struct {
	base
	apiKey  string
	baseURL string
}

// NewCurrencyFreaks creates the CurrencyFreaks adapter.
func NewCurrencyFreaks(apiKey string, timeout time.Duration, usage portsprov.UsageRecorder) *CurrencyFreaks {
	return &CurrencyFreaks{
		base:    newBase(timeout, usage),
		apiKey:  apiKey,
		baseURL: "https://api.currencyfreaks.com/v2.0",
	}
}

func (p *CurrencyFreaks) Name() domain.ProviderName { return domain.ProviderCurrencyFreaks }

func (p *CurrencyFreaks) Capabilities() portsprov.Capabilities {
	return portsprov.Capabilities{Latest: true, Historical: true, Timeseries: true}
}

func (p *CurrencyFreaks) Configured() bool { return p.apiKey != "" }

// cfRatesResponse covers both the latest and historical endpoints.
// CurrencyFreaks serializes rates as strings.
type cfRatesResponse struct {
	Date  string            `json:"date"`
	Rates map[string]string `json:"rates"`
}

type cfTimeseriesResponse struct {
	HistoricalRatesList []struct {
		Date  string            `json:"date"`
		Rates map[string]string `json:"rates"`
	} `json:"historicalRatesList"`
}

func (p *CurrencyFreaks) FetchLatest(ctx context.Context) (*domain.ProviderRate, error) {
	return p.fetchSingle(ctx, domain.UsageLatest, nil,
		fmt.Sprintf("%s/rates/latest?apikey=%s&symbols=TRY", p.baseURL, url.QueryEscape(p.apiKey)))
}

func (p *CurrencyFreaks) FetchHistorical(ctx context.Context, date time.Time) (*domain.ProviderRate, error) {
	return p.fetchSingle(ctx, domain.UsageHistorical, &date,
		fmt.Sprintf("%s/rates/historical?apikey=%s&date=%s&symbols=TRY",
			p.baseURL, url.QueryEscape(p.apiKey), dateutil.Format(date)))
}

func (p *CurrencyFreaks) fetchSingle(ctx context.Context, kind domain.UsageKind, date *time.Time, reqURL string) (*domain.ProviderRate, error) {
	if !p.Configured() {
		perr := missingKeyErr(p.Name())
		p.record(ctx, domain.NewUsageError(p.Name(), kind, date, perr))
		return nil, perr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		perr := &domain.ProviderError{Provider: p.Name(), Code: domain.CodeNetworkError, Message: err.Error()}
		p.record(ctx, domain.NewUsageError(p.Name(), kind, date, perr))
		return nil, perr
	}

	var body cfRatesResponse
	status, perr := p.getJSON(ctx, p.Name(), req, &body)
	if perr == nil {
		perr = p.parseTRY(status, body.Rates)
	}
	if perr != nil {
		p.record(ctx, domain.NewUsageError(p.Name(), kind, date, perr))
		return nil, perr
	}

	rate, rateErr := invertUSDBase(p.Name(), status, mustDecimal(body.Rates["TRY"]))
	if rateErr != nil {
		p.record(ctx, domain.NewUsageError(p.Name(), kind, date, rateErr))
		return nil, rateErr
	}
	p.record(ctx, domain.NewUsageSuccess(p.Name(), kind, date, status))
	return rate, nil
}

// parseTRY validates that the response carries a parseable TRY quote.
func (p *CurrencyFreaks) parseTRY(status int, rates map[string]string) *domain.ProviderError {
	raw, ok := rates["TRY"]
	if !ok {
		return &domain.ProviderError{
			Provider:   p.Name(),
			Code:       domain.CodeInvalidResponse,
			HTTPStatus: status,
			Message:    "response is missing the TRY rate",
		}
	}
	if _, err := decimal.NewFromString(raw); err != nil {
		return &domain.ProviderError{
			Provider:   p.Name(),
			Code:       domain.CodeInvalidResponse,
			HTTPStatus: status,
			Message:    fmt.Sprintf("unparseable TRY rate %q", raw),
		}
	}
	return nil
}

func (p *CurrencyFreaks) FetchTimeseries(ctx context.Context, start, end time.Time) (map[string]decimal.Decimal, error) {
	if !p.Configured() {
		perr := missingKeyErr(p.Name())
		p.record(ctx, usageRangeError(p.Name(), start, end, perr))
		return nil, perr
	}

	reqURL := fmt.Sprintf("%s/timeseries?apikey=%s&startDate=%s&endDate=%s&symbols=TRY",
		p.baseURL, url.QueryEscape(p.apiKey), dateutil.Format(start), dateutil.Format(end))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		perr := &domain.ProviderError{Provider: p.Name(), Code: domain.CodeNetworkError, Message: err.Error()}
		p.record(ctx, usageRangeError(p.Name(), start, end, perr))
		return nil, perr
	}

	var body cfTimeseriesResponse
	status, perr := p.getJSON(ctx, p.Name(), req, &body)
	if perr != nil {
		p.record(ctx, usageRangeError(p.Name(), start, end, perr))
		return nil, perr
	}

	out := make(map[string]decimal.Decimal, len(body.HistoricalRatesList))
	for _, entry := range body.HistoricalRatesList {
		raw, ok := entry.Rates["TRY"]
		if !ok {
			continue
		}
		usdToTry, err := decimal.NewFromString(raw)
		if err != nil || usdToTry.LessThanOrEqual(decimal.Zero) {
			perr := &domain.ProviderError{
				Provider:   p.Name(),
				Code:       domain.CodeInvalidResponse,
				HTTPStatus: status,
				Message:    fmt.Sprintf("unusable TRY rate %q for %s", raw, entry.Date),
			}
			p.record(ctx, usageRangeError(p.Name(), start, end, perr))
			return nil, perr
		}
		out[entry.Date] = one.Div(usdToTry)
	}
	if len(out) == 0 {
		perr := &domain.ProviderError{
			Provider:   p.Name(),
			Code:       domain.CodeRateUnavailable,
			HTTPStatus: status,
			Message:    "no TRY rates in the requested window",
		}
		p.record(ctx, usageRangeError(p.Name(), start, end, perr))
		return nil, perr
	}

	p.record(ctx, usageRangeSuccess(p.Name(), start, end, status))
	return out, nil
}

// mustDecimal re-parses a quote already validated by parseTRY.
func mustDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func usageRangeSuccess(provider domain.ProviderName, start, end time.Time, status int) domain.UsageEvent {
	ev := domain.NewUsageSuccess(provider, domain.UsageTimeseries, nil, status)
	ev.StartDate = &start
	ev.EndDate = &end
	return ev
}

func usageRangeError(provider domain.ProviderName, start, end time.Time, perr *domain.ProviderError) domain.UsageEvent {
	ev := domain.NewUsageError(provider, domain.UsageTimeseries, nil, perr)
	ev.StartDate = &start
	ev.EndDate = &end
	return ev
}
