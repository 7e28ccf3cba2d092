package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"CryptoSentinel/internal/model"
)

// HistoryHeader is the column layout of the snapshot history file.
var HistoryHeader = []string{
	"date",
	"current_price",
	"dominance_percentage",
	"market_cap_usd",
	"24h_volume_usd",
	"24h_change_percentage",
}

// HistoryStore is the append-only snapshot history CSV. Appends take no
// lock: concurrent writers against the same file are not coordinated.
type HistoryStore struct {
	Path string
}

// appendLocks serializes appends to the same file across HistoryStore values.
var appendLocks sync.Map

func pathLock(path string) *sync.Mutex {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	mu, _ := appendLocks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// NewHistoryStore returns a store for path.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{Path: path}
}

// Append adds one row, writing the header first when the file is new.
func (h *HistoryStore) Append(s model.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	mu := pathLock(h.Path)
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(h.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat history: %w", err)
	}
	writeHeader := info.Size() == 0

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(HistoryHeader); err != nil {
			return fmt.Errorf("write history header: %w", err)
		}
	}
	row := []string{
		s.Date.UTC().Format(dateTimeLayout),
		formatFloat(s.CurrentPrice),
		formatFloat(s.Dominance),
		formatFloat(s.MarketCapUSD),
		formatFloat(s.Volume24hUSD),
		formatFloat(s.Change24hPct),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write history row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush history: %w", err)
	}
	return nil
}

// ReadAll returns every snapshot in file order.
func (h *HistoryStore) ReadAll() ([]model.Snapshot, error) {
	cols, records, err := readTable(h.Path)
	if err != nil {
		return nil, err
	}
	dateCol, ok := column(cols, "date")
	if !ok {
		return nil, fmt.Errorf("%s: missing date column", h.Path)
	}
	priceCol, ok := column(cols, "current_price")
	if !ok {
		return nil, fmt.Errorf("%s: missing current_price column", h.Path)
	}
	optional := []struct {
		name string
		dst  func(*model.Snapshot) *float64
	}{
		{"dominance_percentage", func(s *model.Snapshot) *float64 { return &s.Dominance }},
		{"market_cap_usd", func(s *model.Snapshot) *float64 { return &s.MarketCapUSD }},
		{"24h_volume_usd", func(s *model.Snapshot) *float64 { return &s.Volume24hUSD }},
		{"24h_change_percentage", func(s *model.Snapshot) *float64 { return &s.Change24hPct }},
	}

	out := make([]model.Snapshot, 0, len(records))
	for i, rec := range records {
		var s model.Snapshot
		if s.Date, err = parseDate(field(rec, dateCol)); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", h.Path, i+2, err)
		}
		if s.CurrentPrice, err = parseFloat(field(rec, priceCol)); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", h.Path, i+2, err)
		}
		for _, col := range optional {
			c, ok := column(cols, col.name)
			if !ok {
				continue
			}
			if *col.dst(&s), err = parseFloat(field(rec, c)); err != nil {
				return nil, fmt.Errorf("%s row %d %s: %w", h.Path, i+2, col.name, err)
			}
		}
		out = append(out, s)
	}
	return out, nil
}
