package model

import "time"

// TokenUsage is the normalized token accounting reported by an LLM backend.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Report is a message produced by a job run.
type Report struct {
	Job         string
	Text        string
	Model       string
	Usage       *TokenUsage
	GeneratedAt time.Time
}
