package model

import "time"

// OHLC represents a single candlestick bar.
type OHLC struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// PricePoint is one sample of the daily price series.
type PricePoint struct {
	Date      time.Time
	Price     float64
	Volume    float64
	Dominance float64
}

// Snapshot is the current market state of a coin, one row of the history CSV.
type Snapshot struct {
	Date         time.Time
	CurrentPrice float64
	Dominance    float64
	MarketCapUSD float64
	Volume24hUSD float64
	Change24hPct float64
}

// Prices extracts the price column.
func Prices(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}

// Volumes extracts the volume column.
func Volumes(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Volume
	}
	return out
}

// Dominances extracts the dominance column.
func Dominances(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Dominance
	}
	return out
}
