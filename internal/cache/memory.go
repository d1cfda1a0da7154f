package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	memoryNumCounters = 1e6      // admission counters, ~10x the expected entries
	memoryMaxCost     = 64 << 20 // 64MB of cached values
	memoryBufferItems = 64
)

// Memory is an in-process Cache used when Redis is not configured and in tests.
// It is bounded by total value size, and expired entries are evicted in the
// background.
type Memory struct {
	cache *ristretto.Cache
}

var _ Cache = (*Memory)(nil)

func NewMemory() (*Memory, error) {
	return newMemory(memoryMaxCost)
}

func newMemory(maxCost int64) (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        memoryNumCounters,
		MaxCost:            maxCost,
		BufferItems:        memoryBufferItems,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory cache: %w", err)
	}
	return &Memory{cache: c}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

// Set stores a copy of value. Writes are applied before Set returns, so a
// following Get sees them; the admission policy may still drop a new entry
// when the cache is full.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := append([]byte(nil), value...)
	cost := int64(len(v)) + int64(len(key))
	if ttl > 0 {
		m.cache.SetWithTTL(key, v, cost, ttl)
	} else {
		m.cache.Set(key, v, cost)
	}
	m.cache.Wait()
	return nil
}

// Close stops the background eviction goroutines.
func (m *Memory) Close() {
	m.cache.Close()
}
