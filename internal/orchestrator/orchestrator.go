package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/observe"
	"github.com/dileep-u-k/coach-gateway/internal/tools"
)

// DefaultExternalTimeout bounds a single call to an external tool.
const DefaultExternalTimeout = 8 * time.Second

// Orchestrator fans a request out to its tools. It holds no per-request
// state and is safe for concurrent use.
type Orchestrator struct {
	registry        *tools.Registry
	observer        observe.Observer
	externalTimeout time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver sets the event sink.
func WithObserver(o observe.Observer) Option {
	return func(orch *Orchestrator) { orch.observer = observe.OrNoop(o) }
}

// WithExternalTimeout sets the per-call timeout for external tools.
func WithExternalTimeout(d time.Duration) Option {
	return func(orch *Orchestrator) {
		if d > 0 {
			orch.externalTimeout = d
		}
	}
}

func New(registry *tools.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:        registry,
		observer:        observe.Noop{},
		externalTimeout: DefaultExternalTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type outcome struct {
	slot     Slot
	warnings []string
	err      error
}

// Run executes every tool registered for tags and waits for all of them.
// A failing, panicking or timed-out tool only affects its own slot.
func (o *Orchestrator) Run(ctx context.Context, tags intent.TagSet, in tools.Input) Bundle {
	if in.RequestID == "" {
		in.RequestID = uuid.NewString()
	}
	if tags == nil {
		tags = intent.NewTagSet()
	}
	for _, tag := range tags.Sorted() {
		o.observer.Emit(ctx, observe.Event{
			Kind: observe.TagDetected, RequestID: in.RequestID, Fields: map[string]any{"tag": string(tag)},
		})
	}

	selected := o.registry.For(tags)
	bundle := Bundle{
		RequestID: in.RequestID,
		Tags:      tags,
		Slots:     make(map[string]Slot, len(selected)),
		ToolsUsed: []string{},
	}
	if len(selected) == 0 {
		return bundle
	}

	results := make(chan outcome, len(selected))
	for _, t := range selected {
		go func(t tools.Tool) {
			results <- o.runOne(ctx, t, in)
		}(t)
	}

	for range selected {
		res := <-results
		bundle.Slots[res.slot.Tool] = res.slot
		if res.slot.Status == StatusOK {
			bundle.ToolsUsed = append(bundle.ToolsUsed, res.slot.Tool)
		}
		o.report(ctx, in.RequestID, res)
	}
	return bundle
}

func (o *Orchestrator) runOne(ctx context.Context, t tools.Tool, in tools.Input) outcome {
	def := t.Definition()
	o.observer.Emit(ctx, observe.Event{Kind: observe.ToolStarted, RequestID: in.RequestID, Tool: def.Name})

	start := time.Now()
	var data any
	var err error
	if def.External {
		data, err = o.runExternal(ctx, t, in)
	} else {
		data, err = safeExecute(ctx, t, in)
	}
	slot := Slot{Tool: def.Name, Duration: time.Since(start)}

	switch {
	case err == nil && data != nil:
		slot.Status, slot.Present, slot.Data = StatusOK, true, data
	case err == nil, errors.Is(err, tools.ErrNoData):
		slot.Status = StatusEmpty
		err = nil
	case def.External && errors.Is(err, context.DeadlineExceeded):
		slot.Status, slot.Error = StatusUnavailable, fmt.Sprintf("%s timed out after %s", def.Name, o.externalTimeout)
	default:
		slot.Status, slot.Error = StatusFailed, err.Error()
	}

	res := outcome{slot: slot, err: err}
	if est, ok := data.(tools.Estimator); ok && slot.Present {
		res.warnings = est.EstimationWarnings()
	}
	return res
}

// runExternal bounds an external tool by the configured timeout. A tool that
// ignores its context is abandoned when the deadline passes.
func (o *Orchestrator) runExternal(ctx context.Context, t tools.Tool, in tools.Input) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, o.externalTimeout)
	defer cancel()

	type result struct {
		data any
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := safeExecute(ctx, t, in)
		done <- result{data, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil && !errors.Is(r.err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ctx.Err(), r.err)
		}
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// safeExecute turns a panic inside a tool into an error.
func safeExecute(ctx context.Context, t tools.Tool, in tools.Input) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return t.Execute(ctx, in)
}

func (o *Orchestrator) report(ctx context.Context, requestID string, res outcome) {
	ev := observe.Event{
		RequestID: requestID,
		Tool:      res.slot.Tool,
		Duration:  res.slot.Duration,
		Fields:    map[string]any{"status": string(res.slot.Status)},
	}
	switch res.slot.Status {
	case StatusFailed:
		ev.Kind, ev.Err = observe.ToolFailed, res.err
	case StatusUnavailable:
		ev.Kind, ev.Err = observe.ToolUnavailable, res.err
	default:
		ev.Kind = observe.ToolCompleted
	}
	o.observer.Emit(ctx, ev)

	if len(res.warnings) > 0 {
		o.observer.Emit(ctx, observe.Event{
			Kind:      observe.EstimationApplied,
			RequestID: requestID,
			Tool:      res.slot.Tool,
			Fields:    map[string]any{"warnings": res.warnings},
		})
	}
}
