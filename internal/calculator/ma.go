package calculator

import (
	"errors"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
)

// ErrInsufficientData is returned when a series is shorter than the requested window.
var ErrInsufficientData = errors.New("not enough data")

// MovingAverage computes the trailing simple moving average over window samples.
// The first window-1 outputs are NaN.
func MovingAverage(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sma := trend.NewSmaWithPeriod[float64](window)
	result := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
	// Right-align: the indicator skips its idle period.
	copy(out[len(values)-len(result):], result)
	return out
}

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// MeanDominance returns the mean of the dominance readings among the last
// period samples. Zero and NaN entries mark days without a snapshot and are
// skipped. Shorter histories use every available sample.
func MeanDominance(dominance []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	start := len(dominance) - period
	if start < 0 {
		start = 0
	}
	sum, count := 0.0, 0
	for _, d := range dominance[start:] {
		if d <= 0 || math.IsNaN(d) {
			continue
		}
		sum += d
		count++
	}
	if count == 0 {
		return 0, ErrInsufficientData
	}
	return sum / float64(count), nil
}

// Round2 rounds half to even at two decimals.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.RoundToEven(v*100) / 100
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
