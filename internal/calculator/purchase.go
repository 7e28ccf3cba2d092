package calculator

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// PurchaseAmount is the sizing heuristic
// 100 * (longMA / price) * (meanDominance / currentDominance), truncated to an integer.
func PurchaseAmount(longMA, price, meanDominance, currentDominance float64) (int64, error) {
	if price <= 0 {
		return 0, errors.New("current price must be positive")
	}
	if currentDominance <= 0 {
		return 0, errors.New("current dominance must be positive")
	}
	if math.IsNaN(longMA) || math.IsNaN(meanDominance) {
		return 0, ErrInsufficientData
	}
	amount := 100 * (longMA / price) * (meanDominance / currentDominance)
	return decimal.NewFromFloat(amount).Truncate(0).IntPart(), nil
}
