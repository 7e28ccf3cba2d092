package analysis

import (
	"fmt"
	"math"
	"strings"

	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/model"
)

// Settings controls the narration windows and thresholds.
type Settings struct {
	Window       int     // recent days inspected by the crossover rules
	Overbought   float64 // RSI level
	Oversold     float64 // RSI level
	VolumeWindow int     // trailing volume average
	SpikeRatio   float64 // latest/average volume that counts as a spike
}

// DefaultSettings returns a 3-day window, RSI 70/30 and a 20-day volume average.
func DefaultSettings() Settings {
	return Settings{
		Window:       3,
		Overbought:   70,
		Oversold:     30,
		VolumeWindow: 20,
		SpikeRatio:   1.5,
	}
}

// Narrate returns one sentence per indicator family: moving averages, MACD,
// RSI, Bollinger bands, volume and the ADX market regime.
func Narrate(rows []model.IndicatorRow, regime model.Regime, s Settings) []string {
	return []string{
		AnalyzeMovingAverages(rows, s.Window),
		AnalyzeMACD(rows, s.Window),
		AnalyzeRSI(rows, s.Window, s.Overbought, s.Oversold),
		AnalyzeBollinger(rows, s.Window),
		AnalyzeVolume(rows, s.VolumeWindow, s.SpikeRatio),
		AnalyzeRegime(regime),
	}
}

// Summary joins narrated lines into the text handed to the LLM and the report.
func Summary(lines []string) string {
	return strings.Join(lines, "\n")
}

func tail(rows []model.IndicatorRow, window int) []model.IndicatorRow {
	if window <= 0 {
		window = 1
	}
	if len(rows) <= window {
		return rows
	}
	return rows[len(rows)-window:]
}

func countWhere(rows []model.IndicatorRow, pred func(model.IndicatorRow) bool) int {
	n := 0
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return n
}

// AnalyzeMovingAverages checks the short/long moving average relationship over
// the recent window: consistent for every day, just crossed on the last day,
// or converging.
func AnalyzeMovingAverages(rows []model.IndicatorRow, window int) string {
	if len(rows) == 0 || math.IsNaN(rows[len(rows)-1].MALong) {
		return "Moving averages unavailable (insufficient history)"
	}
	recent := tail(rows, window)
	golden := countWhere(recent, func(r model.IndicatorRow) bool { return r.MAShort > r.MALong })
	death := countWhere(recent, func(r model.IndicatorRow) bool { return r.MAShort < r.MALong })
	last := recent[len(recent)-1]

	switch {
	case golden == window:
		return fmt.Sprintf("Consistent Uptrend (Golden Cross for %d days)", window)
	case death == window:
		return fmt.Sprintf("Consistent Downtrend (Death Cross for %d days)", window)
	case last.MAShort > last.MALong:
		return "Short MA just crossed above long MA (Potential Golden Cross)"
	case last.MAShort < last.MALong:
		return "Short MA just crossed below long MA (Potential Death Cross)"
	default:
		return "MAs are converging (Unclear trend)"
	}
}

// AnalyzeMACD reports every MACD/signal crossover in the recent window with
// its recency, or the current momentum bias when there is none.
func AnalyzeMACD(rows []model.IndicatorRow, window int) string {
	if len(rows) == 0 {
		return "MACD unavailable (insufficient history)"
	}
	recent := tail(rows, window)
	var signals []string
	for i := 1; i < len(recent); i++ {
		prev, curr := recent[i-1], recent[i]
		ago := daysAgo(len(recent) - 1 - i)
		switch {
		case prev.MACD < prev.Signal && curr.MACD > curr.Signal:
			signals = append(signals, "Bullish crossover ("+ago+")")
		case prev.MACD > prev.Signal && curr.MACD < curr.Signal:
			signals = append(signals, "Bearish crossover ("+ago+")")
		}
	}

	if len(signals) > 0 {
		return "MACD Crossovers Detected: " + strings.Join(signals, ", ")
	}
	last := recent[len(recent)-1]
	if last.MACD > last.Signal {
		return "MACD shows bullish momentum"
	}
	return "MACD shows bearish momentum"
}

func daysAgo(n int) string {
	switch n {
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", n)
	}
}

// AnalyzeRSI interprets RSI over the recent window.
func AnalyzeRSI(rows []model.IndicatorRow, window int, overbought, oversold float64) string {
	if len(rows) == 0 || math.IsNaN(rows[len(rows)-1].RSI) {
		return "RSI unavailable (insufficient history)"
	}
	recent := tail(rows, window)
	over := countWhere(recent, func(r model.IndicatorRow) bool { return r.RSI > overbought })
	under := countWhere(recent, func(r model.IndicatorRow) bool { return r.RSI < oversold })
	rsi := recent[len(recent)-1].RSI

	switch {
	case over == window:
		return fmt.Sprintf("RSI consistently overbought (%.2f)", rsi)
	case under == window:
		return fmt.Sprintf("RSI consistently oversold (%.2f)", rsi)
	case rsi > overbought:
		return fmt.Sprintf("RSI just entered overbought (%.2f)", rsi)
	case rsi < oversold:
		return fmt.Sprintf("RSI just entered oversold (%.2f)", rsi)
	default:
		return fmt.Sprintf("RSI neutral range (%.2f)", rsi)
	}
}

// AnalyzeBollinger checks whether price broke out of the bands recently.
func AnalyzeBollinger(rows []model.IndicatorRow, window int) string {
	if len(rows) == 0 || math.IsNaN(rows[len(rows)-1].BollingerMid) {
		return "Bollinger Bands unavailable (insufficient history)"
	}
	recent := tail(rows, window)
	above := countWhere(recent, func(r model.IndicatorRow) bool { return r.Price > r.BollingerUpper })
	below := countWhere(recent, func(r model.IndicatorRow) bool { return r.Price < r.BollingerLower })
	last := recent[len(recent)-1]

	switch {
	case above == window:
		return fmt.Sprintf("Price consistently above upper band (%d days) → Overbought", window)
	case below == window:
		return fmt.Sprintf("Price consistently below lower band (%d days) → Oversold", window)
	case last.Price > last.BollingerUpper:
		return "Price just broke above upper band → Overbought"
	case last.Price < last.BollingerLower:
		return "Price just broke below lower band → Oversold"
	default:
		return "Price within Bollinger Bands (Normal)"
	}
}

// AnalyzeVolume compares the latest volume with its trailing average.
func AnalyzeVolume(rows []model.IndicatorRow, window int, spikeRatio float64) string {
	volumes := make([]float64, len(rows))
	for i, r := range rows {
		volumes[i] = r.Volume
	}
	ma := calculator.MovingAverage(volumes, window)
	if len(ma) == 0 || math.IsNaN(ma[len(ma)-1]) || ma[len(ma)-1] <= 0 {
		return fmt.Sprintf("Volume: insufficient history for %d-day average", window)
	}

	ratio := volumes[len(volumes)-1] / ma[len(ma)-1]
	switch {
	case ratio >= spikeRatio:
		return fmt.Sprintf("Volume spike: %.2fx the %d-day average", ratio, window)
	case math.Abs(ratio-1) < 0.005:
		// Anything that prints as 1.00x is neither above nor below.
		return fmt.Sprintf("Volume at %d-day average (%.2fx)", window, ratio)
	case ratio > 1:
		return fmt.Sprintf("Volume above %d-day average (%.2fx)", window, ratio)
	default:
		return fmt.Sprintf("Volume below %d-day average (%.2fx)", window, ratio)
	}
}

// AnalyzeRegime describes the ADX market regime.
func AnalyzeRegime(r model.Regime) string {
	switch r.Kind {
	case model.RegimeBullish:
		return fmt.Sprintf("Market regime: strong bullish trend (ADX %.2f, +DI %.2f > -DI %.2f)", r.ADX, r.PlusDI, r.MinusDI)
	case model.RegimeBearish:
		return fmt.Sprintf("Market regime: strong bearish trend (ADX %.2f, -DI %.2f >= +DI %.2f)", r.ADX, r.MinusDI, r.PlusDI)
	case model.RegimeRanging:
		if r.ADX < calculator.RangingADX {
			return fmt.Sprintf("Market regime: ranging, no clear trend (ADX %.2f)", r.ADX)
		}
		return fmt.Sprintf("Market regime: neutral, trend developing (ADX %.2f)", r.ADX)
	default:
		return "Market regime: insufficient OHLC data for ADX"
	}
}
