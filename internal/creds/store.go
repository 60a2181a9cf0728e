package creds

import (
	"context"
	"encoding/base64"
	"sync"

	"go.uber.org/zap"
)

// Credentials is a basic-auth username/secret pair. Contents are opaque;
// no validation is applied.
type Credentials struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

func (c Credentials) empty() bool {
	return c.Username == "" || c.Secret == ""
}

// SessionStore is the persisted credential tier. Implementations outlive a
// single console process but are scoped to one login session.
type SessionStore interface {
	Save(ctx context.Context, c Credentials) error
	// Load returns the stored credentials and whether any were present.
	Load(ctx context.Context) (Credentials, bool, error)
	Delete(ctx context.Context) error
}

// Store owns basic-auth credentials across two tiers: a volatile in-memory
// tier cleared when the process exits, and an optional persisted tier behind
// a SessionStore. The persisted tier is written only on an explicit
// "remember" and promoted back into the volatile tier lazily, on first read.
type Store struct {
	mu      sync.Mutex
	current Credentials // volatile tier
	session SessionStore
	logger  *zap.Logger
}

// NewStore creates a credential store. session may be nil, in which case
// credentials live only in process memory.
func NewStore(session SessionStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{session: session, logger: logger}
}

// Set stores the pair into the volatile tier, and additionally into the
// persisted tier iff remember is true. Persistence failures are logged and
// swallowed; the volatile tier is authoritative for the running process.
func (s *Store) Set(ctx context.Context, username, secret string, remember bool) {
	s.mu.Lock()
	s.current = Credentials{Username: username, Secret: secret}
	s.mu.Unlock()

	if remember && s.session != nil {
		if err := s.session.Save(ctx, Credentials{Username: username, Secret: secret}); err != nil {
			s.logger.Warn("creds.persist_failed", zap.Error(err))
		}
	}
}

// Clear empties both tiers unconditionally. Safe to call when already empty.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.current = Credentials{}
	s.mu.Unlock()

	if s.session != nil {
		if err := s.session.Delete(ctx); err != nil {
			s.logger.Warn("creds.clear_persisted_failed", zap.Error(err))
		}
	}
}

// AuthHeader derives the Authorization header for the stored pair, hydrating
// the volatile tier from the persisted tier first if needed. It returns an
// empty map when no complete pair is available and never returns a
// partially-formed header. Storage failures read as "nothing stored".
func (s *Store) AuthHeader(ctx context.Context) map[string]string {
	s.hydrate(ctx)

	s.mu.Lock()
	c := s.current
	s.mu.Unlock()

	if c.empty() {
		return map[string]string{}
	}
	token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Secret))
	return map[string]string{"Authorization": "Basic " + token}
}

// hydrate promotes the persisted tier into the volatile tier when the
// volatile tier is empty. It never copies the other direction.
func (s *Store) hydrate(ctx context.Context) {
	s.mu.Lock()
	needed := s.current.empty()
	s.mu.Unlock()
	if !needed || s.session == nil {
		return
	}

	stored, ok, err := s.session.Load(ctx)
	if err != nil {
		s.logger.Warn("creds.hydrate_failed", zap.Error(err))
		return
	}
	if !ok || stored.empty() {
		return
	}

	s.mu.Lock()
	if s.current.empty() {
		s.current = stored
	}
	s.mu.Unlock()
}
