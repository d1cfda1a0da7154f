package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/coach-gateway/internal/httpx"
)

func newTestOpenAI(t *testing.T, srv *httptest.Server) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient("sk-test", srv.URL, "test-model", time.Second)
	require.NoError(t, err)
	return c.WithRetrier(&httpx.Retrier{Client: srv.Client(), MaxRetries: 3, InitialDelay: time.Millisecond})
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body openAIRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			assert.Equal(t, "test-model", body.Model)
			assert.False(t, body.Stream)
			assert.Equal(t, DefaultMaxTokens, body.MaxTokens)
			if assert.Len(t, body.Messages, 2) {
				assert.Equal(t, "system", body.Messages[0].Role)
				assert.Equal(t, "be exact", body.Messages[0].Content)
				assert.Equal(t, "user", body.Messages[1].Role)
			}
		}
		fmt.Fprint(w, `{"model":"test-model-0613","choices":[{"message":{"role":"assistant","content":"Your BMR is 1780 kcal."}}],
			"usage":{"prompt_tokens":12,"completion_tokens":6,"total_tokens":18}}`)
	}))
	defer srv.Close()

	resp, err := newTestOpenAI(t, srv).Generate(context.Background(), Request{
		SystemInstruction: "be exact",
		UserPayload:       "what is my bmr",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your BMR is 1780 kcal.", resp.Text)
	assert.Equal(t, ProviderOpenAI, resp.Provider)
	assert.Equal(t, "test-model-0613", resp.Model)
	assert.Equal(t, 18, resp.Usage.TotalTokens)
}

func TestOpenAIGenerateEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	_, err := newTestOpenAI(t, srv).Generate(context.Background(), Request{UserPayload: "hi"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIGenerateClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestOpenAI(t, srv).Generate(context.Background(), Request{UserPayload: "hi"})
	var statusErr *httpx.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIGenerateServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	resp, err := newTestOpenAI(t, srv).Generate(context.Background(), Request{UserPayload: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, "test-model", resp.Model)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIGenerateStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body openAIRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			assert.True(t, body.Stream)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Your \"}}]}\n\n")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"target is 2759 kcal.\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	ch, err := newTestOpenAI(t, srv).GenerateStream(context.Background(), Request{UserPayload: "hi"})
	require.NoError(t, err)
	text, err := Collect(ch)
	require.NoError(t, err)
	assert.Equal(t, "Your target is 2759 kcal.", text)
}

func TestOpenAIGenerateStreamBadChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		fmt.Fprint(w, "data: {not json\n\n")
	}))
	defer srv.Close()

	ch, err := newTestOpenAI(t, srv).GenerateStream(context.Background(), Request{UserPayload: "hi"})
	require.NoError(t, err)
	text, err := Collect(ch)
	assert.Error(t, err)
	assert.Equal(t, "partial", text)
}

func TestOpenAIGenerateStreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestOpenAI(t, srv).GenerateStream(context.Background(), Request{UserPayload: "hi"})
	var statusErr *httpx.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestNewClientsRequireKey(t *testing.T) {
	_, err := NewOpenAIClient("", "", "", 0)
	assert.Error(t, err)
	_, err = NewGeminiClient(context.Background(), "", "")
	assert.Error(t, err)
}

// fakeGenerator is a scripted TextGenerator.
type fakeGenerator struct {
	name   string
	text   string
	err    error
	calls  atomic.Int32
	chunks []string
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	f.calls.Add(1)
	if f.err != nil {
		return Response{}, f.err
	}
	return Response{Text: f.text, Provider: f.name}, nil
}

func (f *fakeGenerator) GenerateStream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan StreamChunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- StreamChunk{Delta: c}
	}
	close(ch)
	return ch, nil
}

func TestRouterFallsBack(t *testing.T) {
	primary := &fakeGenerator{name: "gemini", err: errors.New("quota")}
	secondary := &fakeGenerator{name: "openai", text: "hello", chunks: []string{"hel", "lo"}}
	r, err := NewRouter(primary, nil, secondary)
	require.NoError(t, err)
	assert.Equal(t, "gemini>openai", r.Name())

	resp, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "openai", resp.Provider)

	ch, err := r.GenerateStream(context.Background(), Request{})
	require.NoError(t, err)
	text, err := Collect(ch)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, int32(2), primary.calls.Load())
}

func TestRouterAllFail(t *testing.T) {
	quota := errors.New("quota")
	r, err := NewRouter(&fakeGenerator{name: "a", err: quota}, &fakeGenerator{name: "b", err: ErrEmptyResponse})
	require.NoError(t, err)

	_, err = r.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, quota)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestRouterStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	second := &fakeGenerator{name: "b", text: "x"}
	r, err := NewRouter(&fakeGenerator{name: "a", err: context.Canceled}, second)
	require.NoError(t, err)

	_, err = r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), second.calls.Load())
}

func TestNewRouterEmpty(t *testing.T) {
	_, err := NewRouter()
	assert.Error(t, err)
}
