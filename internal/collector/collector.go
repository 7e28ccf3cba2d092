package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price       float64
	Dominance   float64
	HistoryData []model.PricePoint
	OHLCData    []model.OHLC
	Now         func() time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func (m *MockFetcher) FetchHistory(_ context.Context, days int) ([]model.PricePoint, error) {
	if m.HistoryData != nil {
		return m.HistoryData, nil
	}
	today := m.now().Truncate(24 * time.Hour)
	points := make([]model.PricePoint, days)
	for i := range points {
		points[i] = model.PricePoint{
			Date:   today.AddDate(0, 0, -(days - 1 - i)),
			Price:  mockPrice(m.Price, i, days),
			Volume: 25e9 * (1 + 0.1*math.Sin(float64(i)/3)),
		}
	}
	return points, nil
}

func (m *MockFetcher) FetchSnapshot(_ context.Context) (*model.Snapshot, error) {
	return &model.Snapshot{
		Date:         m.now(),
		CurrentPrice: m.Price,
		Dominance:    m.Dominance,
		MarketCapUSD: m.Price * 19.8e6,
		Volume24hUSD: 25e9,
		Change24hPct: 0.5,
	}, nil
}

func (m *MockFetcher) FetchOHLC(_ context.Context, days int) ([]model.OHLC, error) {
	if m.OHLCData != nil {
		return m.OHLCData, nil
	}
	today := m.now().Truncate(24 * time.Hour)
	bars := make([]model.OHLC, days)
	for i := range bars {
		p := mockPrice(m.Price, i, days)
		bars[i] = model.OHLC{
			Time:  today.AddDate(0, 0, -(days - 1 - i)),
			Open:  p * 0.999,
			High:  p * 1.005,
			Low:   p * 0.995,
			Close: p,
		}
	}
	return bars, nil
}

// mockPrice is a gentle uptrend with a weekly wobble ending near base.
func mockPrice(base float64, i, count int) float64 {
	return base * (1 + float64(i-count+1)*0.001 + 0.01*math.Sin(float64(i)/7))
}

// Bundle is one round of fetched market data.
type Bundle struct {
	History  []model.PricePoint
	Snapshot *model.Snapshot
	OHLC     []model.OHLC
}

// Collector orchestrates data fetching. OHLC comes from the market fetcher
// unless a separate source is set.
type Collector struct {
	Fetcher Fetcher
	OHLC    OHLCSource
	Logger  logrus.FieldLogger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, ohlc OHLCSource, logger logrus.FieldLogger) *Collector {
	if ohlc == nil {
		ohlc = fetcher
	}
	return &Collector{Fetcher: fetcher, OHLC: ohlc, Logger: logger}
}

// Collect fetches history, the current snapshot and OHLC bars. Any failure
// aborts the round.
func (c *Collector) Collect(ctx context.Context, historyDays, ohlcDays int) (*Bundle, error) {
	history, err := c.Fetcher.FetchHistory(ctx, historyDays)
	if err != nil {
		return nil, err
	}
	c.Logger.WithField("points", len(history)).Info("historical data fetched")

	snap, err := c.Fetcher.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.WithFields(logrus.Fields{
		"price":     snap.CurrentPrice,
		"dominance": snap.Dominance,
	}).Info("current data fetched")

	bars, err := c.OHLC.FetchOHLC(ctx, ohlcDays)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch OHLC data: no bars returned")
	}
	c.Logger.WithField("bars", len(bars)).Info("OHLC data fetched")

	return &Bundle{History: history, Snapshot: snap, OHLC: bars}, nil
}
