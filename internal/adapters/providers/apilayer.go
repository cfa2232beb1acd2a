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

// APILayer is a historical-only adapter. The free plan quotes EUR-base, so
// the canonical TRY to USD rate is derived as the USD/TRY cross.
type APILayer struct {
	base
	apiKey  string
	baseURL string
}

// NewAPILayer creates the APILayer exchangerates_data adapter.
func NewAPILayer(apiKey string, timeout time.Duration, usage portsprov.UsageRecorder) *APILayer {
	return &APILayer{
		base:    newBase(timeout, usage),
		apiKey:  apiKey,
		baseURL: "https://api.apilayer.com/exchangerates_data",
	}
}

func (p *APILayer) Name() domain.ProviderName { return domain.ProviderAPILayer }

func (p *APILayer) Capabilities() portsprov.Capabilities {
	return portsprov.Capabilities{Historical: true}
}

func (p *APILayer) Configured() bool { return p.apiKey != "" }

type apiLayerResponse struct {
	Success bool                       `json:"success"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func (p *APILayer) FetchLatest(ctx context.Context) (*domain.ProviderRate, error) {
	return nil, notSupportedErr(p.Name(), "latest fetch")
}

func (p *APILayer) FetchTimeseries(ctx context.Context, start, end time.Time) (map[string]decimal.Decimal, error) {
	return nil, notSupportedErr(p.Name(), "timeseries fetch")
}

func (p *APILayer) FetchHistorical(ctx context.Context, date time.Time) (*domain.ProviderRate, error) {
	if !p.Configured() {
		perr := missingKeyErr(p.Name())
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	reqURL := fmt.Sprintf("%s/%s?symbols=USD%%2CTRY&base=EUR", p.baseURL, dateutil.Format(date))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		perr := &domain.ProviderError{Provider: p.Name(), Code: domain.CodeNetworkError, Message: err.Error()}
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}
	req.Header.Set("apikey", p.apiKey)

	var body apiLayerResponse
	status, perr := p.getJSON(ctx, p.Name(), req, &body)
	if perr == nil && !body.Success {
		msg := "provider reported failure"
		if body.Error != nil {
			msg = fmt.Sprintf("provider error %s: %s", body.Error.Code, body.Error.Info)
		}
		perr = &domain.ProviderError{
			Provider:   p.Name(),
			Code:       domain.CodeProviderError,
			HTTPStatus: status,
			Message:    msg,
		}
	}
	if perr != nil {
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	usd, okUSD := body.Rates["USD"]
	try, okTRY := body.Rates["TRY"]
	if !okUSD || !okTRY || usd.LessThanOrEqual(decimal.Zero) || try.LessThanOrEqual(decimal.Zero) {
		perr := &domain.ProviderError{
			Provider:   p.Name(),
			Code:       domain.CodeInvalidResponse,
			HTTPStatus: status,
			Message:    "response is missing usable USD and TRY quotes",
		}
		p.record(ctx, domain.NewUsageError(p.Name(), domain.UsageHistorical, &date, perr))
		return nil, perr
	}

	p.record(ctx, domain.NewUsageSuccess(p.Name(), domain.UsageHistorical, &date, status))
	return &domain.ProviderRate{
		Rate:     usd.Div(try),
		USDToTRY: try.Div(usd),
		Source:   p.Name(),
	}, nil
}
