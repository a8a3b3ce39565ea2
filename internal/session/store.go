// Package session persists the SSI wallet session, the selection that depends on
// it, and the verifier-session cache consulted before any policy-server exchange.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"marketaccess/internal/storage"
)

const (
	KeySessionToken      = "sessionToken"
	KeyVerifierSessionID = "verifierSessionId"
	KeySelectedWallet    = "selectedWallet"
)

// Store is the process-wide session store. All reads degrade to empty state on
// storage failure; writes report backend errors.
type Store struct {
	kv     storage.KV
	logger *slog.Logger
	mu     sync.Mutex
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{kv: kv, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored token, or nil when none is stored or it cannot be read.
func (s *Store) Get(ctx context.Context) *Token {
	token, ok := storage.ReadJSON[*Token](ctx, s.kv, KeySessionToken, s.logger)
	if !ok {
		return nil
	}
	return token
}

// Set stores token. A nil or empty token clears the session and the selection
// that depends on it.
func (s *Store) Set(ctx context.Context, token *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == nil || token.Token == "" {
		return s.clearLocked(ctx)
	}
	return storage.WriteJSON(ctx, s.kv, KeySessionToken, token)
}

// Clear removes the session and the selection that depends on it.
func (s *Store) Clear(ctx context.Context) error {
	return s.Set(ctx, nil)
}

func (s *Store) clearLocked(ctx context.Context) error {
	if err := s.kv.Remove(ctx, KeySessionToken); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	if err := s.kv.Remove(ctx, KeySelectedWallet); err != nil {
		return fmt.Errorf("clear wallet selection: %w", err)
	}
	return nil
}

// Selection returns the current wallet selection, empty when none is stored.
func (s *Store) Selection(ctx context.Context) Selection {
	sel, _ := storage.ReadJSON[Selection](ctx, s.kv, KeySelectedWallet, s.logger)
	return sel
}

func (s *Store) SetSelection(ctx context.Context, sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.WriteJSON(ctx, s.kv, KeySelectedWallet, sel)
}

func verifierKey(did, serviceID string, skip bool) string {
	if skip {
		return did + "_" + serviceID + "_skip"
	}
	return did + "_" + serviceID
}

// LookupVerifierSession returns the verifier session id cached for the pair.
func (s *Store) LookupVerifierSession(ctx context.Context, did, serviceID string, skip bool) (string, bool) {
	cache, _ := storage.ReadJSON[map[string]string](ctx, s.kv, KeyVerifierSessionID, s.logger)
	id, ok := cache[verifierKey(did, serviceID, skip)]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// CacheVerifierSession adds or overwrites the entry for the pair. Entries are
// never pruned individually.
func (s *Store) CacheVerifierSession(ctx context.Context, did, serviceID, sessionID string, skip bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, _ := storage.ReadJSON[map[string]string](ctx, s.kv, KeyVerifierSessionID, s.logger)
	if cache == nil {
		cache = make(map[string]string)
	}
	cache[verifierKey(did, serviceID, skip)] = sessionID
	return storage.WriteJSON(ctx, s.kv, KeyVerifierSessionID, cache)
}

// ClearVerifierSessions drops every cached verifier session.
func (s *Store) ClearVerifierSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(ctx, KeyVerifierSessionID); err != nil {
		return fmt.Errorf("clear verifier sessions: %w", err)
	}
	return nil
}
