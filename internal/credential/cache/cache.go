// Package cache is the process-wide store of credentials fetched during past
// exchanges, plus the credential types the user chose to present.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/crypto/blake2b"

	"marketaccess/internal/credential"
	"marketaccess/internal/storage"
	platformstrings "marketaccess/pkg/platform/strings"
)

const (
	KeyCachedCredentials = "cachedCredentials"
	KeySelections        = "credentialSelectionStorage"
)

type Cache struct {
	kv     storage.KV
	logger *slog.Logger
	mu     sync.Mutex
}

type Option func(*Cache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func New(kv storage.KV, opts ...Option) *Cache {
	c := &Cache{kv: kv, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadAll returns every cached credential. Unreadable state reads as empty.
func (c *Cache) ReadAll(ctx context.Context) []credential.Credential {
	list, _ := storage.ReadJSON[[]credential.Credential](ctx, c.kv, KeyCachedCredentials, c.logger)
	return list
}

// Write replaces the cached list.
func (c *Cache) Write(ctx context.Context, list []credential.Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return storage.WriteJSON(ctx, c.kv, KeyCachedCredentials, list)
}

// Cache appends fresh credentials to the cached list and drops structural
// duplicates, keeping the first occurrence.
func (c *Cache) Cache(ctx context.Context, fresh []credential.Credential) ([]credential.Credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := Dedupe(append(c.ReadAll(ctx), fresh...))
	if err := storage.WriteJSON(ctx, c.kv, KeyCachedCredentials, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Lookup returns the cached credentials whose type tag is one of types. It does
// not write.
func (c *Cache) Lookup(ctx context.Context, types []string) []credential.Credential {
	return Filter(c.ReadAll(ctx), types)
}

// Clear drops every cached credential.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Remove(ctx, KeyCachedCredentials)
}

// Selections returns the credential types the user selected.
func (c *Cache) Selections(ctx context.Context) []string {
	sel, _ := storage.ReadJSON[[]string](ctx, c.kv, KeySelections, c.logger)
	return sel
}

func (c *Cache) SetSelections(ctx context.Context, types []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return storage.WriteJSON(ctx, c.kv, KeySelections, platformstrings.DedupeAndTrim(types))
}

// Filter keeps the credentials whose type tag is in types, in list order.
func Filter(list []credential.Credential, types []string) []credential.Credential {
	var out []credential.Credential
	for _, cred := range list {
		if slices.Contains(types, cred.TypeTag()) {
			out = append(out, cred)
		}
	}
	return out
}

// Dedupe removes structurally equal credentials, first seen wins.
func Dedupe(list []credential.Credential) []credential.Credential {
	return platformstrings.DedupeBy(list, Hash)
}

// Hash is the BLAKE2b-256 digest of the credential's JSON encoding. Map keys are
// encoded sorted, so equal values hash equally.
func Hash(c credential.Credential) [blake2b.Size256]byte {
	data, err := json.Marshal(c)
	if err != nil {
		data = []byte(c.ID)
	}
	return blake2b.Sum256(data)
}
