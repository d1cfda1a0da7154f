// Package llm holds the text-generation clients that turn an assembled
// payload into prose. The numbers in that prose come from the tools; these
// clients only write around them.
package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Request is one generation call.
type Request struct {
	SystemInstruction string
	UserPayload       string
	// Model overrides the client's default model when set.
	Model string
	// Temperature is a pointer so that 0.0 can be told apart from unset.
	Temperature *float32
	MaxTokens   int
}

// Usage is the token accounting reported by the provider, when it reports any.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a complete, non-streamed generation.
type Response struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Usage    Usage  `json:"usage"`
}

// StreamChunk is one piece of a streamed generation. A chunk with Err set is
// the last one sent.
type StreamChunk struct {
	Delta string
	Err   error
}

// TextGenerator is implemented by every provider client.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
	// GenerateStream returns a channel that is closed when the generation ends.
	GenerateStream(ctx context.Context, req Request) (<-chan StreamChunk, error)
}

// Collect drains a stream into a single string.
func Collect(ch <-chan StreamChunk) (string, error) {
	var b strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			return b.String(), chunk.Err
		}
		b.WriteString(chunk.Delta)
	}
	return b.String(), nil
}
