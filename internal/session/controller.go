// Package session wires the credential store, request gateway, and api
// client into one login/identity lifecycle for the console shell.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mcpgate/console/internal/api"
	"github.com/mcpgate/console/internal/creds"
	"github.com/mcpgate/console/internal/gateway"
	"github.com/mcpgate/console/pkg/eventbus"
)

const (
	defaultPollInterval = 250 * time.Millisecond
	defaultPollLimit    = 40
)

// Option configures a Controller.
type Option func(*Controller)

// WithTokenPolling overrides how long the delegated-identity provider is
// polled before the controller gives up.
func WithTokenPolling(interval time.Duration, limit int) Option {
	return func(c *Controller) {
		c.pollInterval = interval
		c.pollLimit = limit
	}
}

// Controller tracks the session identity for the lifetime of the shell. It
// observes the session-expired signal and drives both login flows.
type Controller struct {
	api    *api.Client
	creds  *creds.Store
	tokens TokenSource
	logger *zap.Logger

	pollInterval time.Duration
	pollLimit    int

	mu            sync.Mutex
	identity      api.Identity
	authenticated bool

	dispose func()
}

// NewController subscribes to the session-expired signal on bus for the
// lifetime of the controller; Close detaches it. tokens may be nil when the
// delegated-identity flow is not configured.
func NewController(apiClient *api.Client, store *creds.Store, bus *eventbus.Bus, tokens TokenSource, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		api:          apiClient,
		creds:        store,
		tokens:       tokens,
		logger:       logger,
		pollInterval: defaultPollInterval,
		pollLimit:    defaultPollLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.dispose = bus.Subscribe(gateway.SessionExpired{}, func(any) {
		c.logger.Info("session.expired_signal")
		c.clearIdentity()
	})
	return c
}

// Bootstrap probes the current identity at startup. Success populates the
// session identity; failure of any status clears it. The probe is silent:
// its failure is never surfaced to the user.
func (c *Controller) Bootstrap(ctx context.Context) bool {
	id, err := c.api.Me(ctx)
	if err != nil {
		c.logger.Debug("session.bootstrap_probe_failed", zap.Error(err))
		c.clearIdentity()
		return false
	}
	c.setIdentity(id)
	return true
}

// Identity returns the current session identity, if any.
func (c *Controller) Identity() (api.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, c.authenticated
}

// BasicLogin performs the username/password flow. Credentials are written to
// the store speculatively before the call is issued, so concurrent requests
// racing with the login already carry the header, and rolled back if the
// login fails.
func (c *Controller) BasicLogin(ctx context.Context, username, password string, remember bool) (api.Identity, error) {
	c.creds.Set(ctx, username, password, remember)

	id, err := c.api.LoginWithBasic(ctx, username, password)
	if err != nil {
		c.creds.Clear(ctx)
		return api.Identity{}, err
	}
	c.setIdentity(id)
	return id, nil
}

// GoogleLogin performs the delegated-identity flow. The token provider may
// become ready asynchronously, so its readiness is polled with a bounded
// number of retries; past the ceiling the flow is abandoned silently and ok
// is false with a nil error.
func (c *Controller) GoogleLogin(ctx context.Context) (id api.Identity, ok bool, err error) {
	if c.tokens == nil || !c.awaitTokens(ctx) {
		c.logger.Debug("session.identity_provider_unavailable")
		return api.Identity{}, false, nil
	}

	credential, err := c.tokens.Token(ctx)
	if err != nil {
		return api.Identity{}, false, err
	}

	id, err = c.api.LoginWithGoogle(ctx, credential)
	if err != nil {
		return api.Identity{}, false, err
	}
	c.setIdentity(id)
	return id, true, nil
}

// Logout ends the server-side session and clears both credential tiers and
// the local identity. Local state is cleared even if the call fails.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.api.Logout(ctx)
	c.creds.Clear(ctx)
	c.clearIdentity()
	return err
}

// Close detaches the controller from the session-expired signal.
func (c *Controller) Close() {
	c.dispose()
}

func (c *Controller) awaitTokens(ctx context.Context) bool {
	for attempt := 0; attempt < c.pollLimit; attempt++ {
		if c.tokens.Ready() {
			return true
		}
		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return false
		}
	}
	return false
}

func (c *Controller) setIdentity(id api.Identity) {
	c.mu.Lock()
	c.identity = id
	c.authenticated = true
	c.mu.Unlock()
	c.logger.Info("session.identity_set", zap.String("user_id", id.UserID))
}

func (c *Controller) clearIdentity() {
	c.mu.Lock()
	c.identity = api.Identity{}
	c.authenticated = false
	c.mu.Unlock()
}
