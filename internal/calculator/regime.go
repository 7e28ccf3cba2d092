package calculator

import (
	"github.com/markcheno/go-talib"

	"CryptoSentinel/internal/model"
)

const (
	// TrendingADX is the ADX level above which the market is trending.
	TrendingADX = 25.0
	// RangingADX is the ADX level below which the market is ranging.
	RangingADX = 20.0
)

// DetectRegime classifies the latest OHLC bar by ADX strength and the
// direction of the +DI/-DI lines. ADX needs 2*period bars before its first
// value, anything shorter is reported as insufficient data.
func DetectRegime(bars []model.OHLC, period int) model.Regime {
	if period <= 0 || len(bars) < 2*period {
		return model.Regime{Kind: model.RegimeInsufficient}
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}

	last := len(bars) - 1
	r := model.Regime{
		ADX:     talib.Adx(highs, lows, closes, period)[last],
		PlusDI:  talib.PlusDI(highs, lows, closes, period)[last],
		MinusDI: talib.MinusDI(highs, lows, closes, period)[last],
	}

	switch {
	case r.ADX > TrendingADX:
		r.Trending = true
		if r.PlusDI > r.MinusDI {
			r.Kind = model.RegimeBullish
		} else {
			r.Kind = model.RegimeBearish
		}
	default:
		r.Kind = model.RegimeRanging
	}
	return r
}
