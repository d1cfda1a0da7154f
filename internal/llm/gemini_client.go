package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient generates text with Google's Gemini models.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

var _ TextGenerator = (*GeminiClient)(nil)

// NewGeminiClient creates a client for modelID; an empty modelID selects DefaultGeminiModel.
func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelID == "" {
		modelID = DefaultGeminiModel
	}
	return &GeminiClient{client: client, modelID: modelID}, nil
}

// Name implements TextGenerator.
func (c *GeminiClient) Name() string { return ProviderGemini }

// Close releases the underlying SDK client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Generate performs a blocking request to the Gemini API.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (Response, error) {
	model, name := c.model(req)
	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPayload))
	if err != nil {
		return Response{}, fmt.Errorf("gemini API call failed: %w", err)
	}
	text := geminiText(resp)
	if text == "" {
		return Response{}, ErrEmptyResponse
	}

	out := Response{Text: text, Provider: ProviderGemini, Model: name}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// GenerateStream performs a streaming request to the Gemini API.
func (c *GeminiClient) GenerateStream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	model, _ := c.model(req)
	iter := model.GenerateContentStream(ctx, genai.Text(req.UserPayload))

	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				send(ctx, out, StreamChunk{Err: fmt.Errorf("gemini stream error: %w", err)})
				return
			}
			if delta := geminiText(resp); delta != "" {
				if !send(ctx, out, StreamChunk{Delta: delta}) {
					return
				}
			}
		}
	}()
	return out, nil
}

// model builds a per-request model handle so that concurrent requests never
// share generation settings.
func (c *GeminiClient) model(req Request) (*genai.GenerativeModel, string) {
	name := req.Model
	if name == "" {
		name = c.modelID
	}
	m := c.client.GenerativeModel(name)
	if req.SystemInstruction != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}
	}
	if req.Temperature != nil {
		m.SetTemperature(*req.Temperature)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	m.SetMaxOutputTokens(int32(maxTokens))
	return m, name
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

// send delivers a chunk unless the consumer has gone away.
func send(ctx context.Context, out chan<- StreamChunk, chunk StreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
