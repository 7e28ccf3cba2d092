package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"CryptoSentinel/internal/model"
)

// DefaultCoinGeckoURL is the public API base URL.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// historyPadding is added to the requested days so the long moving average
// still fills when the API returns fewer samples than asked.
const historyPadding = 10

// CoinGeckoFetcher implements Fetcher using the CoinGecko REST API.
type CoinGeckoFetcher struct {
	BaseURL string
	APIKey  string
	CoinID  string
	Symbol  string
	Client  *http.Client
	Now     func() time.Time
}

// NewCoinGeckoFetcher creates a new fetcher with optional proxy support.
func NewCoinGeckoFetcher(baseURL, apiKey, coinID, symbol, proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGeckoFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		CoinID:  coinID,
		Symbol:  strings.ToLower(symbol),
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Now: time.Now,
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// FetchHistory returns one point per UTC day; when the API reports several
// samples for a day (today's partial candle), the latest wins.
func (f *CoinGeckoFetcher) FetchHistory(ctx context.Context, days int) ([]model.PricePoint, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", fmt.Sprint(days+historyPadding))
	q.Set("interval", "daily")

	var chart struct {
		Prices       [][2]float64 `json:"prices"`
		TotalVolumes [][2]float64 `json:"total_volumes"`
	}
	if err := f.get(ctx, "/coins/"+url.PathEscape(f.CoinID)+"/market_chart", q, &chart); err != nil {
		return nil, fmt.Errorf("fetch historical price data: %w", err)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("fetch historical price data: no prices returned")
	}

	byDay := make(map[time.Time]model.PricePoint, len(chart.Prices))
	for i, p := range chart.Prices {
		ts := time.UnixMilli(int64(p[0])).UTC()
		point := model.PricePoint{Date: ts.Truncate(24 * time.Hour), Price: p[1]}
		if i < len(chart.TotalVolumes) {
			point.Volume = chart.TotalVolumes[i][1]
		}
		byDay[point.Date] = point
	}

	points := make([]model.PricePoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// FetchSnapshot combines /simple/price with the dominance from /global.
func (f *CoinGeckoFetcher) FetchSnapshot(ctx context.Context) (*model.Snapshot, error) {
	q := url.Values{}
	q.Set("ids", f.CoinID)
	q.Set("vs_currencies", "usd")
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")
	q.Set("include_24hr_change", "true")

	var prices map[string]struct {
		USD          float64 `json:"usd"`
		USDMarketCap float64 `json:"usd_market_cap"`
		USD24hVol    float64 `json:"usd_24h_vol"`
		USD24hChange float64 `json:"usd_24h_change"`
	}
	if err := f.get(ctx, "/simple/price", q, &prices); err != nil {
		return nil, fmt.Errorf("fetch current price: %w", err)
	}
	coin, ok := prices[f.CoinID]
	if !ok {
		return nil, fmt.Errorf("fetch current price: %s missing from response", f.CoinID)
	}

	var global struct {
		Data struct {
			MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
		} `json:"data"`
	}
	if err := f.get(ctx, "/global", nil, &global); err != nil {
		return nil, fmt.Errorf("fetch global market data: %w", err)
	}

	return &model.Snapshot{
		Date:         f.Now().UTC(),
		CurrentPrice: coin.USD,
		Dominance:    global.Data.MarketCapPercentage[f.Symbol],
		MarketCapUSD: coin.USDMarketCap,
		Volume24hUSD: coin.USD24hVol,
		Change24hPct: coin.USD24hChange,
	}, nil
}

// FetchOHLC returns candles from /coins/{id}/ohlc. CoinGecko picks the
// candle size from days: 4 hours up to 30 days, 4 days beyond.
func (f *CoinGeckoFetcher) FetchOHLC(ctx context.Context, days int) ([]model.OHLC, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", fmt.Sprint(days))

	var raw [][5]float64
	if err := f.get(ctx, "/coins/"+url.PathEscape(f.CoinID)+"/ohlc", q, &raw); err != nil {
		return nil, fmt.Errorf("fetch OHLC data: %w", err)
	}
	bars := make([]model.OHLC, len(raw))
	for i, r := range raw {
		bars[i] = model.OHLC{
			Time:  time.UnixMilli(int64(r[0])).UTC(),
			Open:  r[1],
			High:  r[2],
			Low:   r[3],
			Close: r[4],
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *CoinGeckoFetcher) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := f.BaseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
