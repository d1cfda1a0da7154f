package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// Router tries its generators in order and returns the first success.
// A cancelled request is never retried on the next provider.
type Router struct {
	generators []TextGenerator
}

var _ TextGenerator = (*Router)(nil)

// NewRouter builds a router over one or more generators, in preference order.
func NewRouter(generators ...TextGenerator) (*Router, error) {
	var usable []TextGenerator
	for _, g := range generators {
		if g != nil {
			usable = append(usable, g)
		}
	}
	if len(usable) == 0 {
		return nil, errors.New("router needs at least one text generator")
	}
	return &Router{generators: usable}, nil
}

// Name lists the providers in order, e.g. "gemini>openai".
func (r *Router) Name() string {
	names := make([]string, len(r.generators))
	for i, g := range r.generators {
		names[i] = g.Name()
	}
	return strings.Join(names, ">")
}

// Generate implements TextGenerator.
func (r *Router) Generate(ctx context.Context, req Request) (Response, error) {
	var errs []error
	for _, g := range r.generators {
		resp, err := g.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", g.Name(), err))
		if ctx.Err() != nil {
			break
		}
		log.Printf("⚠️ Generation with %s failed, trying next provider: %v", g.Name(), err)
	}
	return Response{}, errors.Join(errs...)
}

// GenerateStream falls back only while opening the stream; once a provider
// has started sending, its errors are passed through.
func (r *Router) GenerateStream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	var errs []error
	for _, g := range r.generators {
		ch, err := g.GenerateStream(ctx, req)
		if err == nil {
			return ch, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", g.Name(), err))
		if ctx.Err() != nil {
			break
		}
		log.Printf("⚠️ Stream with %s failed to start, trying next provider: %v", g.Name(), err)
	}
	return nil, errors.Join(errs...)
}
