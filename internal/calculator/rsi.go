package calculator

// RSI computes the relative strength index from simple trailing averages of
// gains and losses over period deltas. Index i needs period deltas, so the
// first period outputs are NaN. A window with no losses saturates at 100.
func RSI(prices []float64, period int) []float64 {
	out := nanSeries(len(prices))
	if period <= 0 || len(prices) <= period {
		return out
	}

	for i := period; i < len(prices); i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			change := prices[j] - prices[j-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)

		if avgLoss == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}
