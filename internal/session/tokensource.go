package session

import (
	"context"
	"errors"
	"sync"
)

// TokenSource supplies the opaque delegated-identity token. Providers may
// finish loading after the controller starts; Ready reports whether a token
// can currently be produced.
type TokenSource interface {
	Ready() bool
	Token(ctx context.Context) (string, error)
}

// ErrNoToken is returned when a token is requested from a source that has
// none to give.
var ErrNoToken = errors.New("session: no identity token available")

// StaticTokenSource hands out a token set out-of-band, e.g. pasted into the
// console after an external browser sign-in. It becomes ready once a token
// is set.
type StaticTokenSource struct {
	mu    sync.Mutex
	token string
}

func NewStaticTokenSource() *StaticTokenSource {
	return &StaticTokenSource{}
}

// SetToken installs the identity token. An empty value resets the source to
// not ready.
func (s *StaticTokenSource) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *StaticTokenSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *StaticTokenSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}
