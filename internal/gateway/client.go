package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mcpgate/console/internal/creds"
	"github.com/mcpgate/console/pkg/eventbus"
)

// SessionExpired is broadcast on the bus when any request is rejected as
// unauthenticated. It carries no payload and is never buffered.
type SessionExpired struct{}

// requestIDHeader is the correlation header set by the gateway on every response.
const requestIDHeader = "X-Request-Id"

// Options carries the recognized per-call settings.
type Options struct {
	// Body is JSON-serialized when non-nil.
	Body any
	// Headers are merged over the defaults; caller-supplied values win.
	Headers map[string]string
}

// Client wraps every outbound call to the gateway: it attaches headers,
// classifies the response into one normalized outcome, and raises the
// session-expired signal on authentication failure. It holds no session
// state of its own beyond the transport cookie jar.
type Client struct {
	base   string
	http   *http.Client
	creds  *creds.Store
	bus    *eventbus.Bus
	logger *zap.Logger
}

// NewClient creates a gateway client. If httpClient is nil a default client
// with a cookie jar is used, so ambient session cookies ride along with every
// call independently of the explicit credential header.
func NewClient(baseURL string, httpClient *http.Client, store *creds.Store, bus *eventbus.Bus, logger *zap.Logger) *Client {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar}
	} else if httpClient.Jar == nil {
		if jar, err := cookiejar.New(nil); err == nil {
			httpClient.Jar = jar
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   httpClient,
		creds:  store,
		bus:    bus,
		logger: logger,
	}
}

// Do executes one call against the gateway and decodes a 2xx JSON body into
// out. A 204 short-circuits to an explicit empty success before parsing. Any
// non-2xx status comes back as exactly one *APIError; a 401 additionally
// publishes SessionExpired, once per call, before the error is returned.
func (c *Client) Do(ctx context.Context, method, path string, opts *Options, out any) error {
	if opts == nil {
		opts = &Options{}
	}
	start := time.Now()

	var reqBody io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.creds.AuthHeader(ctx) {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observeRequest(method, "transport_error", start)
		c.logger.Warn("gateway.http_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	observeRequest(method, strconv.Itoa(resp.StatusCode), start)
	requestID := resp.Header.Get(requestIDHeader)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A body-read failure here only degrades the message.
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{
			Message:   errorMessage(resp.StatusCode, body),
			Status:    resp.StatusCode,
			RequestID: requestID,
		}
		if resp.StatusCode == http.StatusUnauthorized {
			SessionExpirations.Inc()
			c.bus.Publish(SessionExpired{})
		}
		c.logger.Warn("gateway.request_rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", requestID))
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if out != nil {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				c.logger.Warn("gateway.decode_failed",
					zap.String("path", path),
					zap.Error(err))
				return fmt.Errorf("decode response: %w", err)
			}
		}
	}

	c.logger.Debug("gateway.request_ok",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, &Options{Body: body}, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, &Options{Body: body}, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, &Options{Body: body}, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}
