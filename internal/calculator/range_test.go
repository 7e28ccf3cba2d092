package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRange(t *testing.T) {
	prices := []float64{50, 10, 20, 35, 25, 30}

	high, low, err := PriceRange(prices, 3)
	require.NoError(t, err)
	assert.Equal(t, 35.0, high)
	assert.Equal(t, 25.0, low)

	high, low, err = PriceRange(prices, 100)
	require.NoError(t, err)
	assert.Equal(t, 50.0, high)
	assert.Equal(t, 10.0, low)

	_, _, err = PriceRange(nil, 30)
	assert.Error(t, err)
}

func TestRangePosition(t *testing.T) {
	pos, err := RangePosition(75, 100, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	pos, err = RangePosition(120, 100, 50)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pos)

	pos, err = RangePosition(10, 100, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pos)

	pos, err = RangePosition(10, 50, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	_, err = RangePosition(10, 40, 50)
	assert.Error(t, err)
}
