package yahoo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awakzdev/stockfeed/internal/adapter/driven/yahoo"
)

func newTestClient(t *testing.T, handler http.Handler) *yahoo.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return yahoo.NewClientWithHTTPClient(server.Client(), server.URL)
}

const chartBody = `{
	"chart": {
		"result": [{
			"timestamp": [1709510400, 1709596800, 1709683200],
			"indicators": {
				"quote": [{
					"open":   [100.5, 101.0, null],
					"high":   [102.0, 103.0, null],
					"low":    [99.0, 100.0, null],
					"close":  [101.5, 102.5, null],
					"volume": [1000, 2000, null]
				}],
				"adjclose": [{
					"adjclose": [101.0, 102.0, null]
				}]
			}
		}],
		"error": null
	}
}`

func TestFetchDailyHistory(t *testing.T) {
	var gotPath, gotInterval string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartBody))
	})

	client := newTestClient(t, handler)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	candles, err := client.FetchDailyHistory(context.Background(), "QLD", start, end)

	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/QLD", gotPath)
	assert.Equal(t, "1d", gotInterval)

	// The third entry is a null row (holiday) and must be dropped.
	require.Len(t, candles, 2)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), candles[0].Date)
	assert.Equal(t, 100.5, candles[0].Open)
	assert.Equal(t, 101.5, candles[0].Close)
	assert.Equal(t, 101.0, candles[0].AdjClose)
	assert.Equal(t, int64(1000), candles[0].Volume)
	assert.Equal(t, 102.5, candles[1].Close)
}

func TestFetchDailyHistory_NoAdjClose(t *testing.T) {
	body := `{
		"chart": {
			"result": [{
				"timestamp": [1709510400],
				"indicators": {
					"quote": [{
						"open": [1], "high": [2], "low": [0.5], "close": [1.5], "volume": [10]
					}]
				}
			}],
			"error": null
		}
	}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})

	client := newTestClient(t, handler)
	candles, err := client.FetchDailyHistory(context.Background(), "QLD", time.Now().AddDate(-1, 0, 0), time.Now())

	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, 1.5, candles[0].AdjClose, "adjclose falls back to close")
}

func TestFetchDailyHistory_SymbolNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, handler)
	candles, err := client.FetchDailyHistory(context.Background(), "NOPE", time.Now().AddDate(-1, 0, 0), time.Now())

	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestFetchDailyHistory_ChartError(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})

	client := newTestClient(t, handler)
	_, err := client.FetchDailyHistory(context.Background(), "QLD", time.Now().AddDate(-1, 0, 0), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid input")
}

func TestFetchDailyHistory_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client := newTestClient(t, handler)
	_, err := client.FetchDailyHistory(context.Background(), "QLD", time.Now().AddDate(-1, 0, 0), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}
