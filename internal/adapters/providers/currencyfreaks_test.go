package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// usageSink collects the events adapters emit.
type usageSink struct {
	events []domain.UsageEvent
}

func (s *usageSink) Record(_ context.Context, ev domain.UsageEvent) {
	s.events = append(s.events, ev)
}

func requireProviderError(t *testing.T, err error) *domain.ProviderError {
	t.Helper()
	var perr *domain.ProviderError
	require.ErrorAs(t, err, &perr)
	return perr
}

func testDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dateutil.Parse(s)
	require.NoError(t, err)
	return d
}

func TestCurrencyFreaksFetchLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rates/latest", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		assert.Equal(t, "TRY", r.URL.Query().Get("symbols"))
		w.Write([]byte(`{"date":"2024-06-14 23:59:59+00","base":"USD","rates":{"TRY":"32.50"}}`))
	}))
	defer srv.Close()

	sink := &usageSink{}
	p := NewCurrencyFreaks("secret", time.Second, sink)
	p.baseURL = srv.URL

	rate, err := p.FetchLatest(context.Background())
	require.NoError(t, err)

	want := decimal.NewFromInt(1).Div(decimal.RequireFromString("32.50"))
	assert.True(t, want.Equal(rate.Rate), "canonical rate is the inverse of the USD-base quote")
	assert.True(t, decimal.RequireFromString("32.50").Equal(rate.USDToTRY))
	assert.Equal(t, domain.ProviderCurrencyFreaks, rate.Source)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.UsageStatusSuccess, sink.events[0].Status)
	assert.Equal(t, domain.UsageLatest, sink.events[0].Kind)
}

func TestCurrencyFreaksFetchHistorical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rates/historical", r.URL.Path)
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("date"))
		w.Write([]byte(`{"date":"2024-06-01","rates":{"TRY":"32.00"}}`))
	}))
	defer srv.Close()

	p := NewCurrencyFreaks("secret", time.Second, nil)
	p.baseURL = srv.URL

	rate, err := p.FetchHistorical(context.Background(), testDay(t, "2024-06-01"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Div(decimal.RequireFromString("32.00")).Equal(rate.Rate))
}

func TestCurrencyFreaksQuotaReached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	sink := &usageSink{}
	p := NewCurrencyFreaks("secret", time.Second, sink)
	p.baseURL = srv.URL

	_, err := p.FetchLatest(context.Background())
	perr := requireProviderError(t, err)
	assert.Equal(t, domain.CodeQuotaReached, perr.Code)
	assert.Equal(t, http.StatusTooManyRequests, perr.HTTPStatus)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.UsageStatusError, sink.events[0].Status)
}

func TestCurrencyFreaksInvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
		code domain.ErrorCode
	}{
		{"malformed json", `{"rates":`, domain.CodeInvalidResponse},
		{"missing TRY", `{"date":"2024-06-01","rates":{"EUR":"0.92"}}`, domain.CodeInvalidResponse},
		{"unparseable TRY", `{"date":"2024-06-01","rates":{"TRY":"n/a"}}`, domain.CodeInvalidResponse},
		{"zero TRY", `{"date":"2024-06-01","rates":{"TRY":"0"}}`, domain.CodeInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewCurrencyFreaks("secret", time.Second, nil)
			p.baseURL = srv.URL

			_, err := p.FetchHistorical(context.Background(), testDay(t, "2024-06-01"))
			perr := requireProviderError(t, err)
			assert.Equal(t, tt.code, perr.Code)
		})
	}
}

func TestCurrencyFreaksMissingKey(t *testing.T) {
	sink := &usageSink{}
	p := NewCurrencyFreaks("", time.Second, sink)

	assert.False(t, p.Configured())

	_, err := p.FetchLatest(context.Background())
	perr := requireProviderError(t, err)
	assert.Equal(t, domain.CodeMissingAPIKey, perr.Code)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.UsageStatusError, sink.events[0].Status)
}

func TestCurrencyFreaksFetchTimeseries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/timeseries", r.URL.Path)
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-06-02", r.URL.Query().Get("endDate"))
		w.Write([]byte(`{"historicalRatesList":[
			{"date":"2024-06-01","rates":{"TRY":"32.00"}},
			{"date":"2024-06-02","rates":{"TRY":"32.50"}}
		]}`))
	}))
	defer srv.Close()

	p := NewCurrencyFreaks("secret", time.Second, nil)
	p.baseURL = srv.URL

	rates, err := p.FetchTimeseries(context.Background(), testDay(t, "2024-06-01"), testDay(t, "2024-06-02"))
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.True(t, decimal.NewFromInt(1).Div(decimal.RequireFromString("32.00")).Equal(rates["2024-06-01"]))
	assert.True(t, decimal.NewFromInt(1).Div(decimal.RequireFromString("32.50")).Equal(rates["2024-06-02"]))
}

func TestCurrencyFreaksNetworkError(t *testing.T) {
	p := NewCurrencyFreaks("secret", 100*time.Millisecond, nil)
	p.baseURL = "http://127.0.0.1:1" // nothing listens here

	_, err := p.FetchLatest(context.Background())
	perr := requireProviderError(t, err)
	assert.Equal(t, domain.CodeNetworkError, perr.Code)
	assert.Zero(t, perr.HTTPStatus)
}
