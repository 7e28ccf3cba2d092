package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"CryptoSentinel/internal/model"
)

func maRows(pairs ...[2]float64) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, len(pairs))
	for i, p := range pairs {
		rows[i] = model.IndicatorRow{MAShort: p[0], MALong: p[1]}
	}
	return rows
}

func TestAnalyzeMovingAverages(t *testing.T) {
	tests := []struct {
		name string
		rows []model.IndicatorRow
		want string
	}{
		{"consistent uptrend", maRows([2]float64{110, 100}, [2]float64{111, 100}, [2]float64{112, 100}),
			"Consistent Uptrend (Golden Cross for 3 days)"},
		{"consistent downtrend", maRows([2]float64{90, 100}, [2]float64{91, 100}, [2]float64{92, 100}),
			"Consistent Downtrend (Death Cross for 3 days)"},
		{"just crossed above", maRows([2]float64{90, 100}, [2]float64{99, 100}, [2]float64{101, 100}),
			"Short MA just crossed above long MA (Potential Golden Cross)"},
		{"just crossed below", maRows([2]float64{110, 100}, [2]float64{101, 100}, [2]float64{99, 100}),
			"Short MA just crossed below long MA (Potential Death Cross)"},
		{"converging", maRows([2]float64{110, 100}, [2]float64{90, 100}, [2]float64{100, 100}),
			"MAs are converging (Unclear trend)"},
		{"undefined long MA", maRows([2]float64{110, math.NaN()}),
			"Moving averages unavailable (insufficient history)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeMovingAverages(tt.rows, 3))
		})
	}
}

func TestAnalyzeMovingAverages_OnlyTailWindowCounts(t *testing.T) {
	rows := maRows([2]float64{90, 100}, [2]float64{90, 100}, [2]float64{110, 100}, [2]float64{111, 100}, [2]float64{112, 100})
	assert.Equal(t, "Consistent Uptrend (Golden Cross for 3 days)", AnalyzeMovingAverages(rows, 3))
}

func macdRows(pairs ...[2]float64) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, len(pairs))
	for i, p := range pairs {
		rows[i] = model.IndicatorRow{MACD: p[0], Signal: p[1]}
	}
	return rows
}

func TestAnalyzeMACD(t *testing.T) {
	tests := []struct {
		name string
		rows []model.IndicatorRow
		want string
	}{
		{"bullish crossover today", macdRows([2]float64{-1, 0}, [2]float64{-1, 0}, [2]float64{1, 0}),
			"MACD Crossovers Detected: Bullish crossover (today)"},
		{"bearish crossover yesterday", macdRows([2]float64{1, 0}, [2]float64{-1, 0}, [2]float64{-2, 0}),
			"MACD Crossovers Detected: Bearish crossover (1 day ago)"},
		{"two crossovers", macdRows([2]float64{-1, 0}, [2]float64{1, 0}, [2]float64{-1, 0}),
			"MACD Crossovers Detected: Bullish crossover (1 day ago), Bearish crossover (today)"},
		{"bullish bias", macdRows([2]float64{1, 0}, [2]float64{2, 0}, [2]float64{3, 0}),
			"MACD shows bullish momentum"},
		{"bearish bias", macdRows([2]float64{-1, 0}, [2]float64{-2, 0}, [2]float64{-3, 0}),
			"MACD shows bearish momentum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeMACD(tt.rows, 3))
		})
	}
}

func TestAnalyzeMACD_ReportsRecencyAcrossWideWindow(t *testing.T) {
	rows := macdRows([2]float64{-1, 0}, [2]float64{1, 0}, [2]float64{2, 0}, [2]float64{3, 0}, [2]float64{4, 0})
	assert.Equal(t, "MACD Crossovers Detected: Bullish crossover (3 days ago)", AnalyzeMACD(rows, 5))
}

func rsiRows(values ...float64) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, len(values))
	for i, v := range values {
		rows[i] = model.IndicatorRow{RSI: v}
	}
	return rows
}

func TestAnalyzeRSI(t *testing.T) {
	tests := []struct {
		name string
		rows []model.IndicatorRow
		want string
	}{
		{"consistently overbought", rsiRows(71, 75, 80.456), "RSI consistently overbought (80.46)"},
		{"consistently oversold", rsiRows(29, 25, 20), "RSI consistently oversold (20.00)"},
		{"just entered overbought", rsiRows(60, 65, 72.1), "RSI just entered overbought (72.10)"},
		{"just entered oversold", rsiRows(40, 35, 28), "RSI just entered oversold (28.00)"},
		{"neutral", rsiRows(50, 55, 45.5), "RSI neutral range (45.50)"},
		{"single violating day is not consistent", rsiRows(75, 65, 75), "RSI just entered overbought (75.00)"},
		{"undefined", rsiRows(50, math.NaN()), "RSI unavailable (insufficient history)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeRSI(tt.rows, 3, 70, 30))
		})
	}
}

func bandRows(prices ...float64) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, len(prices))
	for i, p := range prices {
		rows[i] = model.IndicatorRow{Price: p, BollingerMid: 100, BollingerUpper: 110, BollingerLower: 90}
	}
	return rows
}

func TestAnalyzeBollinger(t *testing.T) {
	tests := []struct {
		name string
		rows []model.IndicatorRow
		want string
	}{
		{"consistently above", bandRows(111, 112, 113), "Price consistently above upper band (3 days) → Overbought"},
		{"consistently below", bandRows(89, 88, 87), "Price consistently below lower band (3 days) → Oversold"},
		{"just broke above", bandRows(100, 105, 111), "Price just broke above upper band → Overbought"},
		{"just broke below", bandRows(100, 95, 89), "Price just broke below lower band → Oversold"},
		{"within bands", bandRows(111, 112, 100), "Price within Bollinger Bands (Normal)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeBollinger(tt.rows, 3))
		})
	}
}

func volumeRows(n int, base, last float64) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, n)
	for i := range rows {
		rows[i] = model.IndicatorRow{Volume: base}
	}
	if n > 0 {
		rows[n-1].Volume = last
	}
	return rows
}

func TestAnalyzeVolume(t *testing.T) {
	// The trailing average includes the latest sample: 19 days at 100 plus the last day.
	tests := []struct {
		name string
		rows []model.IndicatorRow
		want string
	}{
		{"spike", volumeRows(20, 100, 300), "Volume spike: 2.73x the 20-day average"},
		{"above average", volumeRows(20, 100, 120), "Volume above 20-day average (1.19x)"},
		{"at average", volumeRows(20, 100, 100), "Volume at 20-day average (1.00x)"},
		{"below average", volumeRows(20, 100, 50), "Volume below 20-day average (0.51x)"},
		{"insufficient history", volumeRows(10, 100, 300), "Volume: insufficient history for 20-day average"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeVolume(tt.rows, 20, 1.5))
		})
	}
}

func TestAnalyzeRegime(t *testing.T) {
	tests := []struct {
		name   string
		regime model.Regime
		want   string
	}{
		{"bullish", model.Regime{Kind: model.RegimeBullish, ADX: 30, PlusDI: 28, MinusDI: 12, Trending: true},
			"Market regime: strong bullish trend (ADX 30.00, +DI 28.00 > -DI 12.00)"},
		{"bearish", model.Regime{Kind: model.RegimeBearish, ADX: 40, PlusDI: 10, MinusDI: 30, Trending: true},
			"Market regime: strong bearish trend (ADX 40.00, -DI 30.00 >= +DI 10.00)"},
		{"ranging", model.Regime{Kind: model.RegimeRanging, ADX: 15},
			"Market regime: ranging, no clear trend (ADX 15.00)"},
		{"neutral band", model.Regime{Kind: model.RegimeRanging, ADX: 22},
			"Market regime: neutral, trend developing (ADX 22.00)"},
		{"insufficient", model.Regime{Kind: model.RegimeInsufficient},
			"Market regime: insufficient OHLC data for ADX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeRegime(tt.regime))
		})
	}
}

func TestNarrate_OneLinePerFamily(t *testing.T) {
	rows := make([]model.IndicatorRow, 30)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = model.IndicatorRow{
			Date: start.AddDate(0, 0, i), Price: 100, Volume: 10,
			MAShort: 101, MALong: 100, RSI: 50, MACD: 1, Signal: 0,
			BollingerMid: 100, BollingerUpper: 110, BollingerLower: 90,
		}
	}
	lines := Narrate(rows, model.Regime{Kind: model.RegimeRanging, ADX: 12}, DefaultSettings())
	assert.Equal(t, []string{
		"Consistent Uptrend (Golden Cross for 3 days)",
		"MACD shows bullish momentum",
		"RSI neutral range (50.00)",
		"Price within Bollinger Bands (Normal)",
		"Volume at 20-day average (1.00x)",
		"Market regime: ranging, no clear trend (ADX 12.00)",
	}, lines)
	assert.Contains(t, Summary(lines), "MACD shows bullish momentum\nRSI neutral range (50.00)")
}
