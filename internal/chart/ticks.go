package chart

import (
	"math"

	"gonum.org/v1/plot"

	"CryptoSentinel/internal/model"
)

const maxDateTicks = 8

// dateTicker labels row indices with their calendar date.
type dateTicker struct {
	labels []string
}

func dateTicks(rows []model.IndicatorRow) dateTicker {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Date.Format("2006-01-02")
	}
	return dateTicker{labels: labels}
}

// Ticks implements plot.Ticker.
func (d dateTicker) Ticks(min, max float64) []plot.Tick {
	lo := int(math.Max(0, math.Ceil(min)))
	hi := int(math.Min(float64(len(d.labels)-1), math.Floor(max)))
	if hi < lo {
		return nil
	}
	step := (hi - lo) / (maxDateTicks - 1)
	if step < 1 {
		step = 1
	}
	var ticks []plot.Tick
	for i := lo; i <= hi; i++ {
		t := plot.Tick{Value: float64(i)}
		if (i-lo)%step == 0 {
			t.Label = d.labels[i]
		}
		ticks = append(ticks, t)
	}
	return ticks
}
