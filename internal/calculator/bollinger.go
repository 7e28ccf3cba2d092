package calculator

import (
	"gonum.org/v1/gonum/stat"
)

// Bands holds Bollinger band series. Entries before the window fills are NaN.
type Bands struct {
	Mid   []float64
	Upper []float64
	Lower []float64
}

// Bollinger computes bands at k sample standard deviations around the trailing mean.
// The mean, the standard deviation and the band width k*std are each rounded to
// two decimals before the bands are derived, so upper-mid equals mid-lower.
func Bollinger(prices []float64, window int, k float64) Bands {
	n := len(prices)
	b := Bands{Mid: nanSeries(n), Upper: nanSeries(n), Lower: nanSeries(n)}
	if window < 2 || n < window {
		return b
	}
	for i := window - 1; i < n; i++ {
		w := prices[i-window+1 : i+1]
		mid := Round2(stat.Mean(w, nil))
		std := Round2(stat.StdDev(w, nil))
		width := Round2(k * std)
		b.Mid[i] = mid
		b.Upper[i] = Round2(mid + width)
		b.Lower[i] = Round2(mid - width)
	}
	return b
}
