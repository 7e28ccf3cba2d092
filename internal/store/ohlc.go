package store

import (
	"fmt"

	"CryptoSentinel/internal/model"
)

// OHLCHeader is the column layout of the candle file.
var OHLCHeader = []string{"date", "open", "high", "low", "close"}

// WriteOHLC replaces the candle file with bars.
func WriteOHLC(path string, bars []model.OHLC) error {
	rows := make([][]string, len(bars))
	for i, b := range bars {
		rows[i] = []string{
			b.Time.UTC().Format(dateTimeLayout),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
		}
	}
	if err := writeTable(path, OHLCHeader, rows); err != nil {
		return fmt.Errorf("write OHLC: %w", err)
	}
	return nil
}

// ReadOHLC loads candles written by WriteOHLC.
func ReadOHLC(path string) ([]model.OHLC, error) {
	cols, records, err := readTable(path)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(OHLCHeader))
	for i, name := range OHLCHeader {
		c, ok := column(cols, name)
		if !ok {
			return nil, fmt.Errorf("%s: missing %s column", path, name)
		}
		idx[i] = c
	}

	out := make([]model.OHLC, 0, len(records))
	for i, rec := range records {
		var b model.OHLC
		if b.Time, err = parseDate(field(rec, idx[0])); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		vals := [4]*float64{&b.Open, &b.High, &b.Low, &b.Close}
		for j, dst := range vals {
			if *dst, err = parseFloat(field(rec, idx[j+1])); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
			}
		}
		out = append(out, b)
	}
	return out, nil
}
