package collector

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoinGeckoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/coins/bitcoin/market_chart", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "13", r.URL.Query().Get("days"))
		assert.Equal(t, "daily", r.URL.Query().Get("interval"))
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		// 2024-01-01, 2024-01-02, 2024-01-02 13:00 (partial day)
		io.WriteString(w, `{
			"prices": [[1704067200000, 42000.5], [1704153600000, 44000], [1704200400000, 44500]],
			"market_caps": [[1704067200000, 1], [1704153600000, 2], [1704200400000, 3]],
			"total_volumes": [[1704067200000, 1.5e10], [1704153600000, 2e10], [1704200400000, 2.5e10]]
		}`)
	})
	mux.HandleFunc("/simple/price", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))
		io.WriteString(w, `{"bitcoin":{"usd":65000.25,"usd_market_cap":1.28e12,"usd_24h_vol":3.1e10,"usd_24h_change":-1.75}}`)
	})
	mux.HandleFunc("/global", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"market_cap_percentage":{"btc":54.3,"eth":17.1}}}`)
	})
	mux.HandleFunc("/coins/bitcoin/ohlc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		io.WriteString(w, `[[1704081600000, 3, 4, 1, 2], [1704067200000, 1, 2, 0.5, 1.5]]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCoinGecko_FetchHistory(t *testing.T) {
	srv := newCoinGeckoServer(t)
	f := NewCoinGeckoFetcher(srv.URL, "demo-key", "bitcoin", "BTC", "")

	points, err := f.FetchHistory(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, 42000.5, points[0].Price)
	assert.Equal(t, 1.5e10, points[0].Volume)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), points[1].Date)
	assert.Equal(t, 44500.0, points[1].Price)
	assert.Equal(t, 2.5e10, points[1].Volume)
}

func TestCoinGecko_FetchSnapshot(t *testing.T) {
	srv := newCoinGeckoServer(t)
	f := NewCoinGeckoFetcher(srv.URL, "", "bitcoin", "BTC", "")
	now := time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)
	f.Now = func() time.Time { return now }

	snap, err := f.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now, snap.Date)
	assert.Equal(t, 65000.25, snap.CurrentPrice)
	assert.Equal(t, 54.3, snap.Dominance)
	assert.Equal(t, 1.28e12, snap.MarketCapUSD)
	assert.Equal(t, 3.1e10, snap.Volume24hUSD)
	assert.Equal(t, -1.75, snap.Change24hPct)
}

func TestCoinGecko_FetchOHLC_Sorted(t *testing.T) {
	srv := newCoinGeckoServer(t)
	f := NewCoinGeckoFetcher(srv.URL, "", "bitcoin", "btc", "")

	bars, err := f.FetchOHLC(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1.0, bars[0].Open)
	assert.Equal(t, 2.0, bars[1].Close)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
}

func TestCoinGecko_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"status":{"error_code":429,"error_message":"rate limited"}}`)
	}))
	defer srv.Close()
	f := NewCoinGeckoFetcher(srv.URL, "", "bitcoin", "btc", "")

	_, err := f.FetchHistory(context.Background(), 200)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch historical price data")
	assert.Contains(t, err.Error(), "status 429")
}

func TestYahoo_FetchOHLC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BTC-USD", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		io.WriteString(w, `{"chart":{"result":[{"timestamp":[1704067200,1704153600,1704240000],
			"indicators":{"quote":[{"open":[1,null,3],"high":[2,null,4],"low":[0.5,null,2.5],"close":[1.5,null,3.5]}]}}],
			"error":null}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "BTC-USD", "")
	bars, err := f.FetchOHLC(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1.5, bars[0].Close)
	assert.Equal(t, 3.5, bars[1].Close)
}

func TestYahoo_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "NOPE", "").FetchOHLC(context.Background(), 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}
