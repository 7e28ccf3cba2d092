package analysis

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"CryptoSentinel/internal/model"
)

// TradingPrompt assembles the user prompt for the trading advisor: the last
// lastN indicator rows as a table, the current snapshot when known, and the
// narrated technical summary.
func TradingPrompt(rows []model.IndicatorRow, snap *model.Snapshot, ta string, lastN int) string {
	var b strings.Builder
	b.WriteString("Analyze the following Bitcoin market data and return a trading strategy with clear buy/sell signals, ")
	b.WriteString("technical justification, and a risk assessment.\n\n")
	b.WriteString("Below is the recent historical price data with calculated technical indicators (MA, MACD, RSI, Bollinger):\n\n")
	b.WriteString("HISTORICAL_DATA:\n")
	writeTable(&b, tailRows(rows, lastN))

	if snap != nil {
		b.WriteString("\nCurrent market snapshot:\n\nBTC_DATA:\n")
		fmt.Fprintf(&b, "date=%s price=%.2f dominance=%.2f%% market_cap_usd=%.0f volume_24h_usd=%.0f change_24h=%.2f%%\n",
			snap.Date.Format("2006-01-02"), snap.CurrentPrice, snap.Dominance,
			snap.MarketCapUSD, snap.Volume24hUSD, snap.Change24hPct)
	}

	b.WriteString("\nTechnical Analysis Summary:\n")
	b.WriteString(ta)
	b.WriteString("\n")
	return b.String()
}

func tailRows(rows []model.IndicatorRow, n int) []model.IndicatorRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[len(rows)-n:]
}

func writeTable(b *strings.Builder, rows []model.IndicatorRow) {
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "date\tprice\tvolume\tdominance\tMA_short\tMA_long\tRSI\tMACD\tSignal\tBB_mid\tBB_upper\tBB_lower\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Date.Format("2006-01-02"), cell(r.Price), cell(r.Volume), cell(r.Dominance),
			cell(r.MAShort), cell(r.MALong), cell(r.RSI), cell(r.MACD), cell(r.Signal),
			cell(r.BollingerMid), cell(r.BollingerUpper), cell(r.BollingerLower))
	}
	w.Flush()
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}
