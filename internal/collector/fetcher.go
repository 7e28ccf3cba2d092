package collector

import (
	"context"

	"CryptoSentinel/internal/model"
)

// Fetcher defines the interface for fetching coin market data.
type Fetcher interface {
	// FetchHistory returns the daily price/volume series, oldest first.
	FetchHistory(ctx context.Context, days int) ([]model.PricePoint, error)
	// FetchSnapshot returns the current price, dominance and 24h figures.
	FetchSnapshot(ctx context.Context) (*model.Snapshot, error)
	OHLCSource
	Name() string
}

// OHLCSource provides candlestick bars, oldest first.
type OHLCSource interface {
	FetchOHLC(ctx context.Context, days int) ([]model.OHLC, error)
}
