package coach

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/coach-gateway/internal/api"
	"github.com/dileep-u-k/coach-gateway/internal/cache"
	"github.com/dileep-u-k/coach-gateway/internal/calc"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/knowledge"
	"github.com/dileep-u-k/coach-gateway/internal/llm"
	"github.com/dileep-u-k/coach-gateway/internal/observe"
	"github.com/dileep-u-k/coach-gateway/internal/orchestrator"
	"github.com/dileep-u-k/coach-gateway/internal/profile"
	"github.com/dileep-u-k/coach-gateway/internal/tools"
)

type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	last   llm.Request
	text   string
	err    error
	chunks []string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.text, Provider: "fake", Model: "fake-1", Usage: llm.Usage{TotalTokens: 42}}, nil
}

func (f *fakeGenerator) GenerateStream(ctx context.Context, req llm.Request) (<-chan llm.StreamChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan llm.StreamChunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- llm.StreamChunk{Delta: c}
	}
	close(ch)
	return ch, nil
}

func (f *fakeGenerator) lastRequest() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// stallingGenerator never answers on its own; it returns only when the
// context is done.
type stallingGenerator struct{}

func (stallingGenerator) Name() string { return "stalling" }

func (stallingGenerator) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	<-ctx.Done()
	return llm.Response{}, ctx.Err()
}

func (stallingGenerator) GenerateStream(ctx context.Context, req llm.Request) (<-chan llm.StreamChunk, error) {
	ch := make(chan llm.StreamChunk, 1)
	ch <- llm.StreamChunk{Delta: "Your "}
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

type fakeSearcher struct {
	refs []knowledge.Reference
	err  error
}

func (f fakeSearcher) Search(ctx context.Context, query string) ([]knowledge.Reference, error) {
	return f.refs, f.err
}

type recorder struct {
	mu     sync.Mutex
	events []observe.Event
}

func (r *recorder) Emit(_ context.Context, e observe.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) find(kind string) (observe.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Kind == kind {
			return e, true
		}
	}
	return observe.Event{}, false
}

func newService(opts ...Option) *Service {
	orch := orchestrator.New(tools.DefaultRegistry(nil, calc.TargetOptions{}))
	return NewService(intent.Default(), orch, opts...)
}

func macrosRequest() api.ChatRequest {
	return api.ChatRequest{
		Message: "what are my macros for the massive program",
		Profile: profile.Profile{
			Age:      profile.Ptr(30),
			WeightKg: profile.Ptr(80.0),
			HeightCm: profile.Ptr(180.0),
			Sex:      "male",
		},
	}
}

func TestChat(t *testing.T) {
	gen := &fakeGenerator{text: "Your targets are below."}
	svc := newService(WithGenerator(gen), WithKnowledge(fakeSearcher{refs: []knowledge.Reference{
		{Content: "Carb cycling alternates days.", Score: profile.Ptr(0.8), Metadata: map[string]any{"source": "handbook"}},
	}}))

	resp, err := svc.Chat(context.Background(), macrosRequest())
	require.NoError(t, err)

	assert.Equal(t, "Your targets are below.", resp.Content)
	assert.Equal(t, "fake", resp.Provider)
	assert.Equal(t, "fake-1", resp.ModelUsed)
	assert.Equal(t, 42, resp.Usage.TotalTokens)
	assert.Equal(t, []string{"nutrition_calculation", "program_lookup"}, resp.Tags)
	assert.ElementsMatch(t, []string{tools.NutritionToolName, tools.ProgramToolName}, resp.ToolsUsed)
	assert.Equal(t, 1, resp.ReferencesUsed)
	assert.Equal(t, api.CacheDisabled, resp.CacheStatus)
	assert.NotEmpty(t, resp.RequestID)

	req := gen.lastRequest()
	assert.NotEmpty(t, req.SystemInstruction)
	assert.Contains(t, req.UserPayload, "BMR (kcal/day): 1780")
	assert.Contains(t, req.UserPayload, "protein 200 g, carbs 400 g, fat 40 g, 2760 kcal")
	assert.Contains(t, req.UserPayload, "[1] (handbook) Carb cycling alternates days.")
}

func TestChat_ResponseCache(t *testing.T) {
	gen := &fakeGenerator{text: "cached answer"}
	rec := &recorder{}
	store, err := cache.NewMemory()
	require.NoError(t, err)
	defer store.Close()
	svc := newService(WithGenerator(gen), WithResponseCache(store), WithObserver(rec))

	first, err := svc.Chat(context.Background(), macrosRequest())
	require.NoError(t, err)
	assert.Equal(t, api.CacheMiss, first.CacheStatus)

	second, err := svc.Chat(context.Background(), macrosRequest())
	require.NoError(t, err)
	assert.Equal(t, api.CacheHit, second.CacheStatus)
	assert.Equal(t, first.RequestID, second.RequestID)
	assert.Equal(t, "cached answer", second.Content)
	assert.Equal(t, 1, gen.calls)

	_, ok := rec.find(observe.CacheHit)
	assert.True(t, ok)

	other := macrosRequest()
	other.Profile.WeightKg = profile.Ptr(90.0)
	third, err := svc.Chat(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, api.CacheMiss, third.CacheStatus)
	assert.Equal(t, 2, gen.calls)
}

func TestChat_KnowledgeFailureIsIgnored(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	rec := &recorder{}
	svc := newService(WithGenerator(gen), WithObserver(rec),
		WithKnowledge(fakeSearcher{err: knowledge.ErrUnavailable}))

	resp, err := svc.Chat(context.Background(), api.ChatRequest{Message: "what is 15% of 200"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ReferencesUsed)
	assert.Equal(t, []string{tools.ArithmeticToolName}, resp.ToolsUsed)
	assert.Contains(t, gen.lastRequest().UserPayload, "15% of 200 = 30")

	ev, ok := rec.find(observe.KnowledgeRetrieved)
	require.True(t, ok)
	assert.ErrorIs(t, ev.Err, knowledge.ErrUnavailable)
}

func TestChat_Errors(t *testing.T) {
	_, err := newService().Chat(context.Background(), macrosRequest())
	assert.ErrorIs(t, err, ErrNoGenerator)

	_, err = newService(WithGenerator(&fakeGenerator{})).Chat(context.Background(), api.ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = newService(WithGenerator(&fakeGenerator{err: llm.ErrEmptyResponse})).Chat(context.Background(), macrosRequest())
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestChat_GenerationSettings(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	temp := float32(0.2)
	svc := newService(WithGenerator(gen), WithConfig(Config{Model: "base-model", Temperature: &temp, MaxTokens: 500}))

	_, err := svc.Chat(context.Background(), macrosRequest())
	require.NoError(t, err)
	req := gen.lastRequest()
	assert.Equal(t, "base-model", req.Model)
	assert.Equal(t, 500, req.MaxTokens)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, float32(0.2), *req.Temperature)

	override := macrosRequest()
	override.Config = api.GenerationConfig{Model: "other", MaxTokens: 100}
	_, err = svc.Chat(context.Background(), override)
	require.NoError(t, err)
	req = gen.lastRequest()
	assert.Equal(t, "other", req.Model)
	assert.Equal(t, 100, req.MaxTokens)
}

func TestAnalyze(t *testing.T) {
	svc := newService()
	out, err := svc.Analyze(context.Background(), macrosRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"nutrition_calculation", "program_lookup"}, out.Tags)
	assert.Equal(t, []string{"massive", "program"}, out.MatchedKeywords["program_lookup"])
	require.Contains(t, out.Slots, tools.NutritionToolName)
	assert.Equal(t, orchestrator.StatusOK, out.Slots[tools.NutritionToolName].Status)
	assert.NotNil(t, out.References)
	assert.Empty(t, out.References)
	assert.Contains(t, out.Payload.UserPayload, "VERIFIED RESULT: program")
}

func TestAnalyze_NoTags(t *testing.T) {
	out, err := newService().Analyze(context.Background(), api.ChatRequest{Message: "hello there"})
	require.NoError(t, err)
	assert.Empty(t, out.Tags)
	assert.Empty(t, out.Slots)
	assert.Empty(t, out.ToolsUsed)
}

func TestChatStream(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"Your ", "BMR is ", "1780 kcal."}}
	svc := newService(WithGenerator(gen))

	stream, err := svc.ChatStream(context.Background(), macrosRequest())
	require.NoError(t, err)
	text, err := llm.Collect(stream.Chunks)
	require.NoError(t, err)
	assert.Equal(t, "Your BMR is 1780 kcal.", text)
	assert.Equal(t, []string{"nutrition_calculation", "program_lookup"}, stream.Done.Tags)
	assert.NotEmpty(t, stream.Done.RequestID)
}

func TestChatStream_StartFailure(t *testing.T) {
	boom := errors.New("boom")
	svc := newService(WithGenerator(&fakeGenerator{err: boom}))
	_, err := svc.ChatStream(context.Background(), macrosRequest())
	assert.ErrorIs(t, err, boom)
}

func TestChat_GenerationTimeout(t *testing.T) {
	svc := newService(WithGenerator(stallingGenerator{}), WithConfig(Config{GenerationTimeout: 50 * time.Millisecond}))

	start := time.Now()
	_, err := svc.Chat(context.Background(), macrosRequest())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestChatStream_GenerationTimeout(t *testing.T) {
	svc := newService(WithGenerator(stallingGenerator{}), WithConfig(Config{GenerationTimeout: 50 * time.Millisecond}))

	stream, err := svc.ChatStream(context.Background(), macrosRequest())
	require.NoError(t, err)
	text, err := llm.Collect(stream.Chunks)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "Your ", text)
}
