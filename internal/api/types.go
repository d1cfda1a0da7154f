// Package api defines the JSON shapes exchanged with HTTP clients.
package api

import (
	"github.com/dileep-u-k/coach-gateway/internal/assembler"
	"github.com/dileep-u-k/coach-gateway/internal/knowledge"
	"github.com/dileep-u-k/coach-gateway/internal/llm"
	"github.com/dileep-u-k/coach-gateway/internal/orchestrator"
	"github.com/dileep-u-k/coach-gateway/internal/profile"
)

// Cache status values reported on ChatResponse.
const (
	CacheHit      = "HIT"
	CacheMiss     = "MISS"
	CacheDisabled = "DISABLED"
)

// GenerationConfig lets a caller tune the generation step of one request.
type GenerationConfig struct {
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// ChatRequest is the body of POST /api/v1/chat and POST /api/v1/analyze.
type ChatRequest struct {
	Message string          `json:"message" binding:"required"`
	Profile profile.Profile `json:"profile"`
	// WeightHistoryLb holds weekly weight changes, oldest first.
	WeightHistoryLb []float64        `json:"weight_history_lb,omitempty"`
	Stream          bool             `json:"stream,omitempty"`
	Config          GenerationConfig `json:"config"`
}

// ChatResponse is the answer to a non-streamed chat request.
type ChatResponse struct {
	RequestID      string    `json:"request_id"`
	Content        string    `json:"content"`
	Provider       string    `json:"provider"`
	ModelUsed      string    `json:"model_used"`
	Usage          llm.Usage `json:"usage"`
	Tags           []string  `json:"tags"`
	ToolsUsed      []string  `json:"tools_used"`
	ReferencesUsed int       `json:"references_used"`
	LatencyMS      int64     `json:"latency_ms"`
	CacheStatus    string    `json:"cache_status"`
}

// AnalyzeResponse shows everything the core decided for a message, without
// calling the generation service.
type AnalyzeResponse struct {
	RequestID       string                       `json:"request_id"`
	Tags            []string                     `json:"tags"`
	MatchedKeywords map[string][]string          `json:"matched_keywords"`
	Slots           map[string]orchestrator.Slot `json:"slots"`
	ToolsUsed       []string                     `json:"tools_used"`
	References      []knowledge.Reference        `json:"references"`
	Payload         assembler.Payload            `json:"payload"`
}

// StreamDone is the final event of a streamed chat.
type StreamDone struct {
	RequestID string   `json:"request_id"`
	Tags      []string `json:"tags"`
	ToolsUsed []string `json:"tools_used"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}
