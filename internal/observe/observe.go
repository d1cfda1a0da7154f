// Package observe emits structured events at request and tool boundaries.
package observe

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Event kinds.
const (
	TagDetected        = "tag_detected"
	ToolStarted        = "tool_started"
	ToolCompleted      = "tool_completed"
	ToolFailed         = "tool_failed"
	ToolUnavailable    = "tool_unavailable"
	EstimationApplied  = "estimation_applied"
	KnowledgeRetrieved = "knowledge_retrieved"
	GenerationDone     = "generation_completed"
	CacheHit           = "cache_hit"
)

// Event is one structured observation.
type Event struct {
	Kind      string
	RequestID string
	Tool      string
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// Observer receives events. Implementations must be safe for concurrent use.
type Observer interface {
	Emit(ctx context.Context, event Event)
}

// Noop ignores all events.
type Noop struct{}

func (Noop) Emit(context.Context, Event) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes events to w as slog text, or JSON when asJSON is set.
func NewLogObserver(w io.Writer, level slog.Level, asJSON bool) Observer {
	if w == nil {
		return Noop{}
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if asJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	return &logObserver{logger: slog.New(h)}
}

// levelFor maps an event kind to its log level.
func levelFor(e Event) slog.Level {
	switch e.Kind {
	case ToolStarted, CacheHit:
		return slog.LevelDebug
	case EstimationApplied, ToolUnavailable:
		return slog.LevelWarn
	case ToolFailed:
		return slog.LevelError
	default:
		if e.Err != nil {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
}

func (o *logObserver) Emit(ctx context.Context, e Event) {
	attrs := make([]any, 0, 8+len(e.Fields)*2)
	if e.RequestID != "" {
		attrs = append(attrs, "request_id", e.RequestID)
	}
	if e.Tool != "" {
		attrs = append(attrs, "tool", e.Tool)
	}
	if e.Duration > 0 {
		attrs = append(attrs, "duration_ms", e.Duration.Milliseconds())
	}
	for k, v := range e.Fields {
		attrs = append(attrs, k, v)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err.Error())
	}
	o.logger.Log(ctx, levelFor(e), e.Kind, attrs...)
}

// OrNoop returns o, or Noop when o is nil.
func OrNoop(o Observer) Observer {
	if o == nil {
		return Noop{}
	}
	return o
}
