// Package coach wires the request pipeline: classification, tool
// orchestration alongside knowledge retrieval, context assembly and
// generation.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dileep-u-k/coach-gateway/internal/api"
	"github.com/dileep-u-k/coach-gateway/internal/assembler"
	"github.com/dileep-u-k/coach-gateway/internal/cache"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/knowledge"
	"github.com/dileep-u-k/coach-gateway/internal/llm"
	"github.com/dileep-u-k/coach-gateway/internal/observe"
	"github.com/dileep-u-k/coach-gateway/internal/orchestrator"
	"github.com/dileep-u-k/coach-gateway/internal/tools"
	"github.com/dileep-u-k/coach-gateway/internal/version"
)

const (
	responseCachePrefix = "coach:resp:"

	DefaultKnowledgeTimeout  = 3 * time.Second
	DefaultGenerationTimeout = llm.DefaultTimeout
	DefaultResponseCacheTTL  = time.Hour
)

var (
	// ErrEmptyMessage is returned for a blank user message.
	ErrEmptyMessage = errors.New("message must not be empty")
	// ErrNoGenerator is returned by Chat when no text generator is configured.
	ErrNoGenerator = errors.New("no text generator configured")
)

// Config holds the pipeline tunables.
type Config struct {
	Model             string
	Temperature       *float32
	MaxTokens         int
	KnowledgeTimeout  time.Duration
	ResponseCacheTTL  time.Duration
	GenerationTimeout time.Duration
}

// Service runs one request through the pipeline. It is safe for concurrent use.
type Service struct {
	classifier   *intent.Classifier
	orchestrator *orchestrator.Orchestrator
	generator    llm.TextGenerator
	searcher     knowledge.Searcher
	cache        cache.Cache
	observer     observe.Observer
	config       Config
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator sets the text generator used by Chat and ChatStream.
func WithGenerator(g llm.TextGenerator) Option {
	return func(s *Service) { s.generator = g }
}

// WithKnowledge enables reference retrieval.
func WithKnowledge(searcher knowledge.Searcher) Option {
	return func(s *Service) { s.searcher = searcher }
}

// WithResponseCache enables caching of final answers.
func WithResponseCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithObserver sets the event sink.
func WithObserver(o observe.Observer) Option {
	return func(s *Service) { s.observer = observe.OrNoop(o) }
}

// WithConfig sets the tunables; zero values keep the defaults.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		if cfg.KnowledgeTimeout <= 0 {
			cfg.KnowledgeTimeout = DefaultKnowledgeTimeout
		}
		if cfg.ResponseCacheTTL <= 0 {
			cfg.ResponseCacheTTL = DefaultResponseCacheTTL
		}
		if cfg.GenerationTimeout <= 0 {
			cfg.GenerationTimeout = DefaultGenerationTimeout
		}
		s.config = cfg
	}
}

// NewService builds a Service. The classifier and orchestrator are required.
func NewService(classifier *intent.Classifier, orch *orchestrator.Orchestrator, opts ...Option) *Service {
	s := &Service{
		classifier:   classifier,
		orchestrator: orch,
		observer:     observe.Noop{},
		config: Config{
			KnowledgeTimeout:  DefaultKnowledgeTimeout,
			ResponseCacheTTL:  DefaultResponseCacheTTL,
			GenerationTimeout: DefaultGenerationTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// prepared is the output of every pipeline stage before generation.
type prepared struct {
	requestID      string
	classification intent.Classification
	bundle         orchestrator.Bundle
	references     []knowledge.Reference
	payload        assembler.Payload
}

// prepare classifies the message, runs the tools while references are
// fetched, and assembles the generation payload.
func (s *Service) prepare(ctx context.Context, req api.ChatRequest) (prepared, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return prepared{}, ErrEmptyMessage
	}
	p := prepared{requestID: uuid.NewString()}
	p.classification = s.classifier.Classify(text)

	refsCh := make(chan []knowledge.Reference, 1)
	go func() {
		refsCh <- s.retrieve(ctx, p.requestID, text)
	}()

	p.bundle = s.orchestrator.Run(ctx, p.classification.Tags, tools.Input{
		RequestID:       p.requestID,
		Text:            text,
		Profile:         req.Profile,
		WeightHistoryLb: req.WeightHistoryLb,
	})
	p.references = <-refsCh

	payload, err := assembler.Assemble(assembler.Request{
		Text:       text,
		Profile:    req.Profile,
		Tags:       p.classification.Tags,
		Bundle:     p.bundle,
		References: p.references,
	})
	if err != nil {
		return prepared{}, fmt.Errorf("failed to assemble context: %w", err)
	}
	p.payload = payload
	return p, nil
}

// retrieve is best-effort: any failure yields no references.
func (s *Service) retrieve(ctx context.Context, requestID, text string) []knowledge.Reference {
	if s.searcher == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.KnowledgeTimeout)
	defer cancel()

	start := time.Now()
	refs, err := s.searcher.Search(ctx, text)
	s.observer.Emit(ctx, observe.Event{
		Kind:      observe.KnowledgeRetrieved,
		RequestID: requestID,
		Duration:  time.Since(start),
		Err:       err,
		Fields:    map[string]any{"references": len(refs)},
	})
	if err != nil {
		return nil
	}
	return refs
}

// Analyze runs every stage except generation.
func (s *Service) Analyze(ctx context.Context, req api.ChatRequest) (api.AnalyzeResponse, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return api.AnalyzeResponse{}, err
	}
	matched := make(map[string][]string, len(p.classification.MatchedKeywords))
	for tag, kws := range p.classification.MatchedKeywords {
		matched[string(tag)] = kws
	}
	refs := p.references
	if refs == nil {
		refs = []knowledge.Reference{}
	}
	return api.AnalyzeResponse{
		RequestID:       p.requestID,
		Tags:            p.classification.Tags.Strings(),
		MatchedKeywords: matched,
		Slots:           p.bundle.Slots,
		ToolsUsed:       p.bundle.ToolsUsed,
		References:      refs,
		Payload:         p.payload,
	}, nil
}

// Chat runs the full pipeline and returns the generated answer. Answers are
// cached under a key that includes every component version.
func (s *Service) Chat(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error) {
	start := time.Now()
	if s.generator == nil {
		return api.ChatResponse{}, ErrNoGenerator
	}

	cacheStatus := api.CacheDisabled
	var cacheKey string
	if s.cache != nil {
		cacheStatus = api.CacheMiss
		cacheKey = responseCacheKey(req)
		cached, ok, err := cache.GetJSON[api.ChatResponse](ctx, s.cache, cacheKey)
		if err != nil {
			log.Printf("Response cache GET error: %v", err)
		} else if ok {
			s.observer.Emit(ctx, observe.Event{Kind: observe.CacheHit, RequestID: cached.RequestID})
			cached.CacheStatus = api.CacheHit
			cached.LatencyMS = time.Since(start).Milliseconds()
			return cached, nil
		}
	}

	p, err := s.prepare(ctx, req)
	if err != nil {
		return api.ChatResponse{}, err
	}

	genStart := time.Now()
	genCtx, cancel := context.WithTimeout(ctx, s.config.GenerationTimeout)
	gen, err := s.generator.Generate(genCtx, s.generationRequest(req, p.payload))
	cancel()
	s.observer.Emit(ctx, observe.Event{
		Kind:      observe.GenerationDone,
		RequestID: p.requestID,
		Duration:  time.Since(genStart),
		Err:       err,
		Fields:    map[string]any{"provider": gen.Provider, "total_tokens": gen.Usage.TotalTokens},
	})
	if err != nil {
		return api.ChatResponse{}, fmt.Errorf("generation failed: %w", err)
	}

	resp := api.ChatResponse{
		RequestID:      p.requestID,
		Content:        gen.Text,
		Provider:       gen.Provider,
		ModelUsed:      gen.Model,
		Usage:          gen.Usage,
		Tags:           p.classification.Tags.Strings(),
		ToolsUsed:      p.bundle.ToolsUsed,
		ReferencesUsed: len(p.references),
		CacheStatus:    cacheStatus,
	}
	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, cacheKey, resp, s.config.ResponseCacheTTL); err != nil {
			log.Printf("Response cache SET error: %v", err)
		}
	}
	resp.LatencyMS = time.Since(start).Milliseconds()
	return resp, nil
}

// Stream is an in-progress streamed answer. Chunks is closed when the
// generation ends.
type Stream struct {
	Done   api.StreamDone
	Chunks <-chan llm.StreamChunk
}

// ChatStream runs the pipeline and streams the generation. Streamed answers
// are not cached.
func (s *Service) ChatStream(ctx context.Context, req api.ChatRequest) (Stream, error) {
	if s.generator == nil {
		return Stream{}, ErrNoGenerator
	}
	p, err := s.prepare(ctx, req)
	if err != nil {
		return Stream{}, err
	}
	genCtx, cancel := context.WithTimeout(ctx, s.config.GenerationTimeout)
	ch, err := s.generator.GenerateStream(genCtx, s.generationRequest(req, p.payload))
	if err != nil {
		cancel()
		s.observer.Emit(ctx, observe.Event{Kind: observe.GenerationDone, RequestID: p.requestID, Err: err})
		return Stream{}, fmt.Errorf("generation failed: %w", err)
	}
	return Stream{
		Done: api.StreamDone{
			RequestID: p.requestID,
			Tags:      p.classification.Tags.Strings(),
			ToolsUsed: p.bundle.ToolsUsed,
		},
		Chunks: relay(ctx, genCtx, cancel, ch),
	}, nil
}

// relay forwards chunks until the generation ends or its deadline passes.
// A deadline is reported to the reader as a final error chunk; cancel runs
// once the relay is done.
func relay(ctx, genCtx context.Context, cancel context.CancelFunc, in <-chan llm.StreamChunk) <-chan llm.StreamChunk {
	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		defer cancel()
		for {
			var chunk llm.StreamChunk
			select {
			case c, ok := <-in:
				if ok {
					chunk = c
					break
				}
				if genCtx.Err() == nil || ctx.Err() != nil {
					return
				}
				chunk = timeoutChunk(genCtx)
			case <-genCtx.Done():
				if ctx.Err() != nil {
					return
				}
				chunk = timeoutChunk(genCtx)
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
			if chunk.Err != nil && genCtx.Err() != nil {
				return
			}
		}
	}()
	return out
}

func timeoutChunk(genCtx context.Context) llm.StreamChunk {
	return llm.StreamChunk{Err: fmt.Errorf("generation timed out: %w", genCtx.Err())}
}

func (s *Service) generationRequest(req api.ChatRequest, payload assembler.Payload) llm.Request {
	out := llm.Request{
		SystemInstruction: payload.SystemInstruction,
		UserPayload:       payload.UserPayload,
		Model:             s.config.Model,
		Temperature:       s.config.Temperature,
		MaxTokens:         s.config.MaxTokens,
	}
	if req.Config.Model != "" {
		out.Model = req.Config.Model
	}
	if req.Config.Temperature != nil {
		out.Temperature = req.Config.Temperature
	}
	if req.Config.MaxTokens > 0 {
		out.MaxTokens = req.Config.MaxTokens
	}
	return out
}

// responseCacheKey covers everything that can change the answer.
func responseCacheKey(req api.ChatRequest) string {
	profileJSON, _ := json.Marshal(req.Profile)
	configJSON, _ := json.Marshal(req.Config)
	return version.VersionedCacheKey(responseCachePrefix,
		strings.TrimSpace(req.Message),
		string(profileJSON),
		fmt.Sprint(req.WeightHistoryLb),
		string(configJSON),
	)
}
