package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dileep-u-k/coach-gateway/internal/httpx"
)

// openAIRequest is the body of a chat completions call.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Stream      bool            `json:"stream,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float32        `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	modelID string
	retrier *httpx.Retrier
	// streams are not retried and have no overall timeout; the request
	// context bounds them instead.
	streamClient *http.Client
}

var _ TextGenerator = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client. Empty baseURL and modelID select the
// OpenAI defaults; a zero timeout selects DefaultTimeout.
func NewOpenAIClient(apiKey, baseURL, modelID string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	if modelID == "" {
		modelID = DefaultOpenAIModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAIClient{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		modelID:      modelID,
		retrier:      httpx.NewRetrier(timeout),
		streamClient: &http.Client{},
	}, nil
}

// WithRetrier replaces the retry policy used by Generate.
func (c *OpenAIClient) WithRetrier(r *httpx.Retrier) *OpenAIClient {
	c.retrier = r
	return c
}

// Name implements TextGenerator.
func (c *OpenAIClient) Name() string { return ProviderOpenAI }

// Generate performs a blocking chat completions request.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (Response, error) {
	httpReq, err := c.newRequest(ctx, req, false)
	if err != nil {
		return Response{}, err
	}
	body, err := c.retrier.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("openai API call failed: %w", err)
	}

	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Response{}, fmt.Errorf("failed to unmarshal openai response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Response{}, ErrEmptyResponse
	}
	model := resp.Model
	if model == "" {
		model = c.modelFor(req)
	}
	return Response{
		Text:     resp.Choices[0].Message.Content,
		Provider: ProviderOpenAI,
		Model:    model,
		Usage:    resp.Usage,
	}, nil
}

// GenerateStream performs a streaming request and relays the server-sent events.
func (c *OpenAIClient) GenerateStream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	httpReq, err := c.newRequest(ctx, req, true)
	if err != nil {
		return nil, err
	}
	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to start stream request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpx.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	out := make(chan StreamChunk)
	go processStream(ctx, resp.Body, out)
	return out, nil
}

func (c *OpenAIClient) modelFor(req Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.modelID
}

func (c *OpenAIClient) newRequest(ctx context.Context, req Request, stream bool) (*http.Request, error) {
	payload := openAIRequest{
		Model:       c.modelFor(req),
		Stream:      stream,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if payload.MaxTokens <= 0 {
		payload.MaxTokens = DefaultMaxTokens
	}
	if req.SystemInstruction != "" {
		payload.Messages = append(payload.Messages, openAIMessage{Role: "system", Content: req.SystemInstruction})
	}
	payload.Messages = append(payload.Messages, openAIMessage{Role: "user", Content: req.UserPayload})

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	return httpReq, nil
}

// processStream reads "data:" lines until [DONE] or EOF.
func processStream(ctx context.Context, body io.ReadCloser, out chan<- StreamChunk) {
	defer body.Close()
	defer close(out)

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return
		}

		var chunk openAIStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			send(ctx, out, StreamChunk{Err: fmt.Errorf("error unmarshalling stream chunk: %w", err)})
			return
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if !send(ctx, out, StreamChunk{Delta: chunk.Choices[0].Delta.Content}) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		send(ctx, out, StreamChunk{Err: fmt.Errorf("error reading stream: %w", err)})
	}
}
