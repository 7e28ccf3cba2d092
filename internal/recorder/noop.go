package recorder

import "CryptoSentinel/internal/model"

// NoopRecorder is used when no report directory is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ *model.Report) error { return nil }
func (n *NoopRecorder) Close() error                       { return nil }
