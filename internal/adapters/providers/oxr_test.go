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

func TestOXRFetchHistorical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/historical/2024-06-01.json", r.URL.Path)
		assert.Equal(t, "app-id", r.URL.Query().Get("app_id"))
		w.Write([]byte(`{"base":"USD","rates":{"TRY":32.25}}`))
	}))
	defer srv.Close()

	p := NewOXR("app-id", time.Second, nil)
	p.baseURL = srv.URL

	rate, err := p.FetchHistorical(context.Background(), testDay(t, "2024-06-01"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Div(decimal.RequireFromString("32.25")).Equal(rate.Rate))
	assert.Equal(t, domain.ProviderOXR, rate.Source)
}

func TestOXRMissingKey(t *testing.T) {
	p := NewOXR("", time.Second, nil)
	assert.False(t, p.Configured())

	_, err := p.FetchHistorical(context.Background(), testDay(t, "2024-06-01"))
	perr := requireProviderError(t, err)
	assert.Equal(t, domain.CodeMissingAPIKey, perr.Code)
}

func TestOXRHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":true,"message":"invalid_app_id"}`))
	}))
	defer srv.Close()

	p := NewOXR("app-id", time.Second, nil)
	p.baseURL = srv.URL

	_, err := p.FetchHistorical(context.Background(), testDay(t, "2024-06-01"))
	perr := requireProviderError(t, err)
	assert.Equal(t, domain.CodeHTTPError, perr.Code)
	assert.Equal(t, http.StatusForbidden, perr.HTTPStatus)
}

func TestOXRUnsupportedModes(t *testing.T) {
	p := NewOXR("app-id", time.Second, nil)

	_, err := p.FetchLatest(context.Background())
	assert.Equal(t, domain.CodeProviderError, requireProviderError(t, err).Code)

	_, err = p.FetchTimeseries(context.Background(), testDay(t, "2024-06-01"), testDay(t, "2024-06-02"))
	assert.Equal(t, domain.CodeProviderError, requireProviderError(t, err).Code)
}
