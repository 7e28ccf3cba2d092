package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/model"
)

// Recorder archives generated reports.
type Recorder interface {
	RecordReport(r *model.Report) error
	Close() error
}

// FileRecorder keeps one text file per day under Dir. A later report on the
// same day replaces the earlier one.
type FileRecorder struct {
	Dir    string
	Logger logrus.FieldLogger
}

// NewFileRecorder creates dir if needed.
func NewFileRecorder(dir string, logger logrus.FieldLogger) (*FileRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &FileRecorder{Dir: dir, Logger: logger.WithField("component", "recorder")}, nil
}

// PathFor returns the archive file for r.
func (f *FileRecorder) PathFor(r *model.Report) string {
	name := fmt.Sprintf("report_%s.txt", r.GeneratedAt.Format("2006-01-02"))
	if r.Job != "" && r.Job != "crypto" {
		name = fmt.Sprintf("%s_report_%s.txt", r.Job, r.GeneratedAt.Format("2006-01-02"))
	}
	return filepath.Join(f.Dir, name)
}

func (f *FileRecorder) RecordReport(r *model.Report) error {
	path := f.PathFor(r)

	var b strings.Builder
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if r.Model != "" {
		fmt.Fprintf(&b, "Model: %s\n", r.Model)
	}
	if r.Usage != nil {
		fmt.Fprintf(&b, "Tokens: input=%d output=%d total=%d\n",
			r.Usage.InputTokens, r.Usage.OutputTokens, r.Usage.TotalTokens)
	}
	b.WriteString("\n")
	b.WriteString(r.Text)
	if !strings.HasSuffix(r.Text, "\n") {
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	f.Logger.WithField("path", path).Info("report archived")
	return nil
}

func (f *FileRecorder) Close() error { return nil }
