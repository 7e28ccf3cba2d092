package collector

import (
	"errors"
	"sort"
	"time"

	"CryptoSentinel/internal/model"
)

// Merge attaches dominance to every price point and refreshes the newest
// point with the latest snapshot. A point takes the dominance of the most
// recent snapshot taken on or before its calendar day, zero before the first
// snapshot. series is not modified.
func Merge(history []model.Snapshot, series []model.PricePoint) ([]model.PricePoint, error) {
	if len(history) == 0 {
		return nil, errors.New("merge: snapshot history is empty")
	}
	if len(series) == 0 {
		return nil, errors.New("merge: price series is empty")
	}

	snaps := append([]model.Snapshot(nil), history...)
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].Date.Before(snaps[j].Date) })

	out := append([]model.PricePoint(nil), series...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	j := -1
	for i := range out {
		day := dayOf(out[i].Date)
		for j+1 < len(snaps) && !dayOf(snaps[j+1].Date).After(day) {
			j++
		}
		if j >= 0 {
			out[i].Dominance = snaps[j].Dominance
		} else {
			out[i].Dominance = 0
		}
	}

	latest := snaps[len(snaps)-1]
	last := &out[len(out)-1]
	last.Price = latest.CurrentPrice
	last.Dominance = latest.Dominance
	return out, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
