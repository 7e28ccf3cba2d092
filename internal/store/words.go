package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WordLog is the plain-text log of extracted words of the day.
type WordLog struct {
	Path string
}

// NewWordLog returns a log backed by path.
func NewWordLog(path string) *WordLog {
	return &WordLog{Path: path}
}

// Append writes word on its own line.
func (l *WordLog) Append(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("create word log dir: %w", err)
	}
	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open word log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(word + "\n"); err != nil {
		return fmt.Errorf("append word: %w", err)
	}
	return nil
}

// ReadAll returns every logged word in order. Older logs kept words on one
// comma-separated line, so both separators are accepted. A missing file is
// an empty log.
func (l *WordLog) ReadAll() ([]string, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	fields := strings.FieldsFunc(string(data), func(r rune) bool {
		return r == '\n' || r == ',' || r == '\r'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := strings.TrimSpace(f); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}
