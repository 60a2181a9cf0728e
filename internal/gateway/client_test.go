package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgate/console/internal/creds"
	"github.com/mcpgate/console/pkg/eventbus"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *eventbus.Bus, *creds.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	bus := eventbus.New()
	store := creds.NewStore(nil, nil)
	return NewClient(srv.URL, srv.Client(), store, bus, nil), bus, store
}

func TestClient_DecodesSuccessBody(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"items":[{"id":"s1"}]}`))
	}))

	var out struct {
		Items []struct{ ID string } `json:"items"`
	}
	require.NoError(t, client.Get(context.Background(), "/api/catalog/servers", &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "s1", out.Items[0].ID)
}

func TestClient_NoContentIsEmptySuccess(t *testing.T) {
	client, bus, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	var emissions int
	bus.Subscribe(SessionExpired{}, func(any) { emissions++ })

	out := map[string]string{"untouched": "yes"}
	require.NoError(t, client.Delete(context.Background(), "/api/tools/t1", &out))
	assert.Equal(t, "yes", out["untouched"], "204 must short-circuit before parsing")
	assert.Equal(t, 0, emissions)
}

func TestClient_NormalizesFailureWithRequestID(t *testing.T) {
	client, bus, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Request-Id", "req-42")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"name already exists"}`))
	}))

	var emissions int
	bus.Subscribe(SessionExpired{}, func(any) { emissions++ })

	err := client.Post(context.Background(), "/api/catalog/servers", map[string]string{"name": "dup"}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "name already exists", apiErr.Message)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "req-42", apiErr.RequestID)
	assert.Equal(t, 0, emissions, "non-401 must not raise the session signal")
}

func TestClient_401EmitsOneSignalPerCall(t *testing.T) {
	client, bus, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	var emissions atomic.Int32
	bus.Subscribe(SessionExpired{}, func(any) { emissions.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := client.Get(context.Background(), "/api/auth/me", nil)
			var apiErr *APIError
			if assert.True(t, errors.As(err, &apiErr)) {
				assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 3, emissions.Load(), "one emission per failing call")
}

func TestClient_AttachesCredentialHeader(t *testing.T) {
	var gotAuth, gotContentType string
	client, _, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))

	store.Set(context.Background(), "alice", "secret", false)
	require.NoError(t, client.Get(context.Background(), "/api/auth/me", nil))

	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret"))
	assert.Equal(t, expected, gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_CallerHeadersWinOnConflict(t *testing.T) {
	var gotAuth, gotExtra string
	client, _, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotExtra = r.Header.Get("X-Console-Tag")
		w.WriteHeader(http.StatusOK)
	}))

	store.Set(context.Background(), "alice", "secret", false)
	opts := &Options{Headers: map[string]string{
		"Authorization": "Bearer override",
		"X-Console-Tag": "audit",
	}}
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/api/auth/me", opts, nil))

	assert.Equal(t, "Bearer override", gotAuth)
	assert.Equal(t, "audit", gotExtra)
}

func TestClient_NoCredentialsMeansNoAuthHeader(t *testing.T) {
	var hadAuth bool
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.Get(context.Background(), "/api/catalog/servers", nil))
	assert.False(t, hadAuth)
}

func TestClient_MalformedSuccessBodyIsAnError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{broken`))
	}))

	var out map[string]any
	err := client.Get(context.Background(), "/api/catalog/servers", &out)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "decode failures are not status failures")
}

func TestClient_SendsJSONBody(t *testing.T) {
	var received string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(b)
		received = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	body := map[string]string{"name": "vs-1"}
	require.NoError(t, client.Post(context.Background(), "/api/virtual-servers", body, nil))
	assert.JSONEq(t, `{"name":"vs-1"}`, received)
}
