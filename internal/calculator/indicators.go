package calculator

import "CryptoSentinel/internal/model"

// Settings holds the window sizes of every indicator.
type Settings struct {
	ShortWindow     int
	LongWindow      int
	RSIPeriod       int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BollingerWindow int
	BollingerK      float64
}

// DefaultSettings returns MA50/MA200, RSI(14), MACD(12,26,9) and Bollinger(20,2).
func DefaultSettings() Settings {
	return Settings{
		ShortWindow:     50,
		LongWindow:      200,
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerWindow: 20,
		BollingerK:      2,
	}
}

// Compute derives indicator rows for the whole series. It is recomputed from
// scratch on every call and never mutates points.
func Compute(points []model.PricePoint, s Settings) []model.IndicatorRow {
	prices := model.Prices(points)

	maShort := MovingAverage(prices, s.ShortWindow)
	maLong := MovingAverage(prices, s.LongWindow)
	rsi := RSI(prices, s.RSIPeriod)
	macd, signal := MACD(prices, s.MACDFast, s.MACDSlow, s.MACDSignal)
	bands := Bollinger(prices, s.BollingerWindow, s.BollingerK)

	rows := make([]model.IndicatorRow, len(points))
	for i, p := range points {
		rows[i] = model.IndicatorRow{
			Date:           p.Date,
			Price:          p.Price,
			Volume:         p.Volume,
			Dominance:      p.Dominance,
			MAShort:        maShort[i],
			MALong:         maLong[i],
			RSI:            rsi[i],
			MACD:           macd[i],
			Signal:         signal[i],
			BollingerMid:   bands.Mid[i],
			BollingerUpper: bands.Upper[i],
			BollingerLower: bands.Lower[i],
		}
	}
	return rows
}
