// Package storage is the durable client-side key-value store the engine keeps its
// state in. Values are opaque strings; most callers store JSON through ReadJSON
// and WriteJSON.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"marketaccess/pkg/platform/sentinel"
)

// KV is the get/set/remove contract every backend implements.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// ReadJSON decodes the value at key into T. A missing key, a backend failure or a
// corrupt value all degrade to the zero value with ok=false; the failure is
// logged at debug level and never surfaced.
func ReadJSON[T any](ctx context.Context, kv KV, key string, logger *slog.Logger) (T, bool) {
	var out T
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		logger.DebugContext(ctx, "storage read failed", "key", key, "error", err)
		return out, false
	}
	if !found || raw == "" {
		return out, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logger.DebugContext(ctx, "discarding corrupt storage value", "key", key, "error", fmt.Errorf("%w: %w", sentinel.ErrCorrupt, err))
		var zero T
		return zero, false
	}
	return out, true
}

// WriteJSON encodes v and stores it at key.
func WriteJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
