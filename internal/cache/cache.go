// Package cache stores knowledge results and final responses.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
// A miss is (nil, false, nil); err is reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a stable, fixed-length key from a prefix and free-form parts.
func Key(prefix string, parts ...string) string {
	hasher := sha256.New()
	hasher.Write([]byte(strings.Join(parts, "\x00")))
	return prefix + hex.EncodeToString(hasher.Sum(nil))
}

// GetJSON decodes a cached JSON value into T. Undecodable entries are misses.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var zero T
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, nil
	}
	return v, true, nil
}

// SetJSON encodes v as JSON and stores it.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
