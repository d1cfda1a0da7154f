// Package httpx holds the retrying request helper shared by the external clients.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Retry policy defaults.
const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = 2 * time.Second
)

// StatusError is returned when the final attempt got a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: status %d, body: %s", e.StatusCode, e.Body)
}

// Retrier performs requests with exponential backoff. Client errors (4xx)
// are returned immediately; transport errors and 5xx are retried.
type Retrier struct {
	Client       *http.Client
	MaxRetries   int
	InitialDelay time.Duration
}

// NewRetrier returns a Retrier using the default policy and a client with the given timeout.
func NewRetrier(timeout time.Duration) *Retrier {
	return &Retrier{
		Client:       &http.Client{Timeout: timeout},
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
	}
}

// Do sends req and returns the body of the first successful response.
// Backoff sleeps are cut short when the request context is done.
func (r *Retrier) Do(req *http.Request) ([]byte, error) {
	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(bodyBytes)), nil
		}
	}

	attempts := max(r.MaxRetries, 1)
	delay := r.InitialDelay
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleep(req.Context(), delay); err != nil {
				return nil, fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			delay *= 2
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("failed to rewind request body: %w", err)
				}
				req.Body = body
			}
		}

		resp, err := r.Client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", i+1, attempts, err)
			if req.Context().Err() != nil {
				return nil, lastErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}
		lastErr = &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
