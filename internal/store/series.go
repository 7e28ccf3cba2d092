package store

import (
	"fmt"

	"CryptoSentinel/internal/model"
)

// SeriesHeader is the column layout of the merged daily price series.
var SeriesHeader = []string{"date", "price", "volume", "dominance_percentage"}

// WritePriceSeries replaces the price series file with points.
func WritePriceSeries(path string, points []model.PricePoint) error {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			p.Date.UTC().Format(dateLayout),
			formatFloat(p.Price),
			formatFloat(p.Volume),
			formatFloat(p.Dominance),
		}
	}
	if err := writeTable(path, SeriesHeader, rows); err != nil {
		return fmt.Errorf("write price series: %w", err)
	}
	return nil
}

// ReadPriceSeries loads the daily price series. Files that carry a close
// column instead of price are accepted; volume and dominance are optional.
func ReadPriceSeries(path string) ([]model.PricePoint, error) {
	cols, records, err := readTable(path)
	if err != nil {
		return nil, err
	}
	dateCol, ok := column(cols, "date", "Date")
	if !ok {
		return nil, fmt.Errorf("%s: missing date column", path)
	}
	priceCol, ok := column(cols, "price", "close", "Close")
	if !ok {
		return nil, fmt.Errorf("%s: missing price column", path)
	}
	volCol, hasVol := column(cols, "volume", "Volume")
	domCol, hasDom := column(cols, "dominance_percentage")

	out := make([]model.PricePoint, 0, len(records))
	for i, rec := range records {
		var p model.PricePoint
		if p.Date, err = parseDate(field(rec, dateCol)); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		if p.Price, err = parseFloat(field(rec, priceCol)); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		if hasVol {
			if p.Volume, err = parseFloat(field(rec, volCol)); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
			}
		}
		if hasDom {
			if p.Dominance, err = parseFloat(field(rec, domCol)); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
			}
		}
		out = append(out, p)
	}
	return out, nil
}
