package calculator

// EMA computes the exponential moving average with alpha = 2/(span+1),
// seeded with the first sample and without warm-up adjustment.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 || span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	prev := values[0]
	out[0] = prev
	for i := 1; i < len(values); i++ {
		// Explicit conversions keep the compiler from fusing into an FMA,
		// which would change the last bits on some architectures.
		prev = float64(alpha*values[i]) + float64((1-alpha)*prev)
		out[i] = prev
	}
	return out
}

// MACD returns the MACD line and its signal line. Every stage is rounded to
// two decimals: both EMAs, their difference and the signal EMA.
func MACD(prices []float64, fast, slow, signal int) (macd, signalLine []float64) {
	fastEMA := roundSeries(EMA(prices, fast))
	slowEMA := roundSeries(EMA(prices, slow))

	macd = make([]float64, len(prices))
	for i := range prices {
		macd[i] = Round2(fastEMA[i] - slowEMA[i])
	}
	signalLine = roundSeries(EMA(macd, signal))
	return macd, signalLine
}

func roundSeries(values []float64) []float64 {
	for i, v := range values {
		values[i] = Round2(v)
	}
	return values
}
