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

// OXR is the Open Exchange Rates adapter, historical only. Quotes are
// USD-base like CurrencyFreaks, so the canonical rate is 1/x.
type OXR struct {
	base
	appID   string
	baseURL string
}

// NewOXR creates the Open Exchange Rates adapter.
func NewOXR(appID string, timeout time.Duration, usage portsprov.UsageRecorder) *OXR {
	return &OXR{
		base:    newBase(timeout, usage),
		appID:   appID,
		baseURL: "https://openexchangerates.org/api",
	}
}

func (p *OXR) Name() domain.ProviderName { return domain.ProviderOXR }

func (p *OXR) Capabilities() portsprov.Capabilities {
	return portsprov.Capabilities{Historical: true}
}

func (p *OXR) Configured() bool { return p.appID != "" }

type oxrHistoricalResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (p *OXR) FetchLatest(ctx context.Context) (*domain.ProviderRate, error) {
	return nil, notSupportedErr(p.Name(), "latest fetch")
}

func (p *OXR) FetchTimeseries(ctx context.Context, start, end time.Time) (map[string]decimal.Decimal, error) {
	return nil, notSupportedErr(p.Name(), "timeseries fetch")
}

func (p *OXR) FetchHistorical(ctx context.Context, date time.Time) (*domain.ProviderRate, error) {
	if !p.Configured() {
		perr := missingKeyErr(p.Name())
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	reqURL := fmt.Sprintf("%s/historical/%s.json?app_id=%s&symbols=TRY",
		p.baseURL, dateutil.Format(date), url.QueryEscape(p.appID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		perr := &domain.ProviderError{Provider: p.Name(), Code: domain.CodeNetworkError, Message: err.Error()}
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	var body oxrHistoricalResponse
	status, perr := p.getJSON(ctx, p.Name(), req, &body)
	if perr != nil {
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	usdToTry, ok := body.Rates["TRY"]
	if !ok {
		perr := &domain.ProviderError{
			Provider:   p.Name(),
			Code:       domain.CodeInvalidResponse,
			HTTPStatus: status,
			Message:    "response is missing the TRY rate",
		}
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	rate, rateErr := invertUSDBase(p.Name(), status, usdToTry)
	if rateErr != nil {
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, rateErr))
		return nil, rateErr
	}
	p.record(ctx, domain.NewUsageSuccess(p.Name(), domain.UsageHistorical, &date, status))
	return rate, nil
}
