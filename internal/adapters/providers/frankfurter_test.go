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
)

func TestFrankfurterFetchHistorical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2024-06-03", r.URL.Path)
		assert.Equal(t, "TRY", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))
		w.Write([]byte(`{"amount":1.0,"base":"TRY","date":"2024-06-03","rates":{"USD":0.031}}`))
	}))
	defer srv.Close()

	p := NewFrankfurter(time.Second, nil)
	p.baseURL = srv.URL

	rate, err := p.FetchHistorical(context.Background(), testDay(t, "2024-06-03"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.031").Equal(rate.Rate), "TRY-base quote is already canonical")
	assert.Equal(t, domain.ProviderFrankfurter, rate.Source)
}

func TestFrankfurterRejectsSubstitutedBusinessDay(t *testing.T) {
	// 2024-06-02 is a Sunday; the API answers with Friday's close.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"amount":1.0,"base":"TRY","date":"2024-05-31","rates":{"USD":0.031}}`))
	}))
	defer srv.Close()

	sink := &usageSink{}
	p := NewFrankfurter(time.Second, sink)
	p.baseURL = srv.URL

	_, err := p.FetchHistorical(context.Background(), testDay(t, "2024-06-02"))
	perr := requireProviderError(t, err)
	assert.Equal(t, domain.CodeRateUnavailable, perr.Code)
	assert.Contains(t, perr.Message, "2024-05-31")

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.UsageStatusError, sink.events[0].Status)
}

func TestFrankfurterMissingUSDRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"amount":1.0,"base":"TRY","date":"2024-06-03","rates":{"EUR":0.029}}`))
	}))
	defer srv.Close()

	p := NewFrankfurter(time.Second, nil)
	p.baseURL = srv.URL

	_, err := p.FetchHistorical(context.Background(), testDay(t, "2024-06-03"))
	perr := requireProviderError(t, err)
	assert.Equal(t, domain.CodeInvalidResponse, perr.Code)
}

func TestFrankfurterIsAlwaysConfigured(t *testing.T) {
	p := NewFrankfurter(time.Second, nil)
	assert.True(t, p.Configured())

	_, err := p.FetchLatest(context.Background())
	perr := requireProviderError(t, err)
	assert.Equal(t, domain.CodeProviderError, perr.Code)
}
