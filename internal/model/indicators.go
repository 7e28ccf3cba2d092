package model

import "time"

// IndicatorRow holds the derived columns for one sample of the price series.
// Undefined values (window not yet filled) are NaN.
type IndicatorRow struct {
	Date           time.Time
	Price          float64
	Volume         float64
	Dominance      float64
	MAShort        float64
	MALong         float64
	RSI            float64
	MACD           float64
	Signal         float64
	BollingerMid   float64
	BollingerUpper float64
	BollingerLower float64
}

// RegimeKind classifies the market state derived from ADX.
type RegimeKind string

const (
	RegimeBullish      RegimeKind = "BULLISH_TREND"
	RegimeBearish      RegimeKind = "BEARISH_TREND"
	RegimeRanging      RegimeKind = "RANGING"
	RegimeInsufficient RegimeKind = "INSUFFICIENT_DATA"
)

// Regime is the trend-strength reading of the OHLC series.
type Regime struct {
	Kind     RegimeKind
	ADX      float64
	PlusDI   float64
	MinusDI  float64
	Trending bool // ADX above the trending threshold
}
