package mockgw

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgate/console/internal/api"
	"github.com/mcpgate/console/internal/creds"
	"github.com/mcpgate/console/internal/gateway"
	"github.com/mcpgate/console/internal/session"
	"github.com/mcpgate/console/pkg/eventbus"
)

type env struct {
	api        *api.Client
	controller *session.Controller
	bus        *eventbus.Bus
	store      *creds.Store
}

// newEnv starts the mock gateway on a loopback port and wires the full
// client stack against it.
func newEnv(t *testing.T) *env {
	t.Helper()

	app := New(Config{
		JWTSecret: "test-secret",
		Users:     map[string]string{"alice": "secret"},
	}, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	bus := eventbus.New()
	store := creds.NewStore(nil, nil)
	gw := gateway.NewClient("http://"+ln.Addr().String(), nil, store, bus, nil)
	apiClient := api.New(gw)
	ctrl := session.NewController(apiClient, store, bus, nil, nil)
	t.Cleanup(ctrl.Close)

	return &env{api: apiClient, controller: ctrl, bus: bus, store: store}
}

func TestMockGateway_UnauthenticatedProbeRaisesSignal(t *testing.T) {
	e := newEnv(t)

	var signals int
	e.bus.Subscribe(gateway.SessionExpired{}, func(any) { signals++ })

	assert.False(t, e.controller.Bootstrap(context.Background()))
	assert.Equal(t, 1, signals)
}

func TestMockGateway_BasicLoginThenCatalogFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id, err := e.controller.BasicLogin(ctx, "alice", "secret", false)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.UserID)

	servers, err := e.api.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, servers, 2, "seeded catalog")

	newID, err := e.api.AddCatalog(ctx, api.CreateCatalogRequest{
		Name: "jira", URL: "https://mcp.jira.example", AccessType: "public",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, newID)

	// Duplicate names surface the normalized conflict message.
	_, err = e.api.AddCatalog(ctx, api.CreateCatalogRequest{
		Name: "jira", URL: "https://mcp.jira.example",
	})
	var apiErr *gateway.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "name already exists", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)

	require.NoError(t, e.api.UpdateCatalog(ctx, newID, api.UpdateCatalogRequest{Description: "issue tracking"}))
}

func TestMockGateway_HubRefreshAndToolLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.controller.BasicLogin(ctx, "alice", "secret", false)
	require.NoError(t, err)

	servers, err := e.api.ListCatalog(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, servers)

	hubID, err := e.api.AddHub(ctx, api.AddHubRequest{MCPServerID: servers[0].ID, AuthType: "none"})
	require.NoError(t, err)

	summary, err := e.api.RefreshHub(ctx, hubID)
	require.NoError(t, err)
	assert.True(t, summary.OK)
	assert.Equal(t, 2, summary.TotalAdded)
	assert.Empty(t, summary.Deleted)

	tools, err := e.api.ListTools(ctx, url.Values{"server_id": {servers[0].ID}})
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, hubID, tools[0].MCPHubServerID)

	require.NoError(t, e.api.SetToolStatus(ctx, tools[0].ID, api.StatusDeactivated))

	active, err := e.api.ListTools(ctx, url.Values{
		"server_id": {servers[0].ID},
		"status":    {string(api.StatusActive)},
	})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	// Tool delete answers 204, which normalizes to an empty success.
	require.NoError(t, e.api.DeleteTool(ctx, tools[1].ID))
}

func TestMockGateway_VirtualServerComposition(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.controller.BasicLogin(ctx, "alice", "secret", false)
	require.NoError(t, err)

	servers, err := e.api.ListCatalog(ctx)
	require.NoError(t, err)
	hubID, err := e.api.AddHub(ctx, api.AddHubRequest{MCPServerID: servers[0].ID})
	require.NoError(t, err)
	summary, err := e.api.RefreshHub(ctx, hubID)
	require.NoError(t, err)
	require.Len(t, summary.Added, 2)

	vsID, err := e.api.CreateVirtualServer(ctx, "my-bundle", []string{summary.Added[0].ID})
	require.NoError(t, err)

	bundled, err := e.api.VirtualServerTools(ctx, vsID)
	require.NoError(t, err)
	require.Len(t, bundled, 1)

	require.NoError(t, e.api.ReplaceVirtualServerTools(ctx, vsID,
		[]string{summary.Added[0].ID, summary.Added[1].ID}))
	bundled, err = e.api.VirtualServerTools(ctx, vsID)
	require.NoError(t, err)
	assert.Len(t, bundled, 2)

	require.NoError(t, e.api.RemoveVirtualServerTool(ctx, vsID, summary.Added[0].ID))
	require.NoError(t, e.api.RenameVirtualServer(ctx, vsID, "renamed"))
	require.NoError(t, e.api.SetVirtualServerStatus(ctx, vsID, api.StatusDeactivated))

	list, err := e.api.ListVirtualServers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "renamed", list[0].Name)
	assert.Equal(t, api.StatusDeactivated, list[0].Status)

	require.NoError(t, e.api.DeleteVirtualServer(ctx, vsID))
}

func TestMockGateway_CookieSessionSurvivesCredentialClear(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.controller.BasicLogin(ctx, "alice", "secret", false)
	require.NoError(t, err)

	// The transport cookie is an independent mechanism: identity probes keep
	// working even with the explicit header gone.
	e.store.Clear(ctx)
	assert.True(t, e.controller.Bootstrap(ctx))

	require.NoError(t, e.controller.Logout(ctx))
	assert.False(t, e.controller.Bootstrap(ctx))
}
