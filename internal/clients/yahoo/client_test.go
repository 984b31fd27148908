package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_ParsesQuoteSummary(t *testing.T) {
	var capturedPath string
	var capturedModules string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedModules = r.URL.Query().Get("modules")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"price": {
						"quoteType": "EQUITY",
						"longName": "Samsung Electronics Co., Ltd.",
						"shortName": "Samsung Elec",
						"exchange": "KSC",
						"marketCap": {"raw": 425000000000000, "fmt": "425T"},
						"regularMarketPrice": {"raw": 71200, "fmt": "71,200"},
						"regularMarketTime": 1772800200
					},
					"assetProfile": {
						"sector": "Technology",
						"industry": "Consumer Electronics"
					}
				}],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	info, err := client.Info(context.Background(), "005930.KS")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "/v10/finance/quoteSummary/005930.KS", capturedPath)
	assert.Equal(t, "price,assetProfile", capturedModules)
	assert.Equal(t, "EQUITY", info.QuoteType)
	assert.Equal(t, "Samsung Electronics Co., Ltd.", info.LongName)
	assert.Equal(t, "Technology", info.Sector)
	assert.Equal(t, "Consumer Electronics", info.Industry)
	assert.Equal(t, int64(425000000000000), info.MarketCap)
	assert.Equal(t, 71200.0, info.RegularMarketPrice)
	assert.Equal(t, int64(1772800200), info.RegularMarketTime)
}

func TestInfo_UnknownTickerIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	info, err := client.Info(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestInfo_ErrorPayloadIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	info, err := client.Info(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestInfo_ServerErrorIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Info(context.Background(), "005930.KS")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestHistory_SkipsNullCloses(t *testing.T) {
	var capturedInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedInterval = r.URL.Query().Get("interval")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1772668800, 1772755200, 1772841600],
					"indicators": {
						"quote": [{"close": [70800, null, 71200]}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	from := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	bars, err := client.History(context.Background(), "005930.KS", from, to)
	require.NoError(t, err)

	assert.Equal(t, "1d", capturedInterval)
	require.Len(t, bars, 2)
	assert.Equal(t, 70800.0, bars[0].Close)
	assert.Equal(t, 71200.0, bars[1].Close)
	assert.Equal(t, time.Unix(1772841600, 0).Unix(), bars[1].Date.Unix())
}

func TestHistory_UnknownTickerIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	bars, err := client.History(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.Nil(t, bars)
}
