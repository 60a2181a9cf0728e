// Package api is the typed surface over the gateway's HTTP contract. It adds
// no behavior of its own; every call goes through the request gateway, which
// owns header injection, error normalization, and the session signal.
package api

import (
	"context"
	"net/url"

	"github.com/mcpgate/console/internal/gateway"
)

type Client struct {
	gw *gateway.Client
}

func New(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

type itemsOf[T any] struct {
	Items []T `json:"items"`
}

type idOf struct {
	ID string `json:"id"`
}

// --- Auth ---

// LoginWithGoogle exchanges an opaque identity token for session identity.
func (c *Client) LoginWithGoogle(ctx context.Context, credential string) (Identity, error) {
	var out Identity
	err := c.gw.Post(ctx, "/api/auth/google", map[string]string{"credential": credential}, &out)
	return out, err
}

// LoginWithBasic exchanges a username/password pair for session identity.
func (c *Client) LoginWithBasic(ctx context.Context, username, password string) (Identity, error) {
	var out Identity
	err := c.gw.Post(ctx, "/api/auth/basic", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.gw.Post(ctx, "/api/auth/logout", nil, nil)
}

// Me probes the current session identity.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var out Identity
	err := c.gw.Get(ctx, "/api/auth/me", &out)
	return out, err
}

// --- Catalog servers ---

func (c *Client) ListCatalog(ctx context.Context) ([]CatalogServer, error) {
	var out itemsOf[CatalogServer]
	err := c.gw.Get(ctx, "/api/catalog/servers", &out)
	return out.Items, err
}

func (c *Client) AddCatalog(ctx context.Context, req CreateCatalogRequest) (string, error) {
	var out idOf
	err := c.gw.Post(ctx, "/api/catalog/servers", req, &out)
	return out.ID, err
}

func (c *Client) UpdateCatalog(ctx context.Context, id string, req UpdateCatalogRequest) error {
	return c.gw.Patch(ctx, "/api/catalog/servers/"+url.PathEscape(id), req, nil)
}

func (c *Client) RefreshCatalog(ctx context.Context, id string) (RefreshSummary, error) {
	var out RefreshSummary
	err := c.gw.Post(ctx, "/api/catalog/servers/"+url.PathEscape(id)+"/refresh", nil, &out)
	return out, err
}

func (c *Client) CatalogTools(ctx context.Context, id string) ([]Tool, error) {
	var out itemsOf[Tool]
	err := c.gw.Get(ctx, "/api/catalog/servers/"+url.PathEscape(id)+"/tools", &out)
	return out.Items, err
}

// --- Hub servers ---

func (c *Client) ListHubs(ctx context.Context) ([]HubServer, error) {
	var out itemsOf[HubServer]
	err := c.gw.Get(ctx, "/api/hub/servers", &out)
	return out.Items, err
}

func (c *Client) AddHub(ctx context.Context, req AddHubRequest) (string, error) {
	var out idOf
	err := c.gw.Post(ctx, "/api/hub/servers", req, &out)
	return out.ID, err
}

func (c *Client) DeleteHub(ctx context.Context, id string) error {
	return c.gw.Delete(ctx, "/api/hub/servers/"+url.PathEscape(id), nil)
}

func (c *Client) RefreshHub(ctx context.Context, id string) (RefreshSummary, error) {
	var out RefreshSummary
	err := c.gw.Post(ctx, "/api/hub/servers/"+url.PathEscape(id)+"/refresh", nil, &out)
	return out, err
}

// --- Tools ---

// ListTools lists tools filtered by the given query values (server_id,
// status, search text).
func (c *Client) ListTools(ctx context.Context, q url.Values) ([]Tool, error) {
	path := "/api/tools"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out itemsOf[Tool]
	err := c.gw.Get(ctx, path, &out)
	return out.Items, err
}

func (c *Client) SetToolStatus(ctx context.Context, id string, status Status) error {
	return c.gw.Patch(ctx, "/api/tools/"+url.PathEscape(id)+"/status",
		map[string]Status{"status": status}, nil)
}

func (c *Client) DeleteTool(ctx context.Context, id string) error {
	return c.gw.Delete(ctx, "/api/tools/"+url.PathEscape(id), nil)
}

// --- Virtual servers ---

func (c *Client) CreateVirtualServer(ctx context.Context, name string, toolIDs []string) (string, error) {
	var out idOf
	err := c.gw.Post(ctx, "/api/virtual-servers", map[string]any{
		"name":     name,
		"tool_ids": toolIDs,
	}, &out)
	return out.ID, err
}

func (c *Client) ListVirtualServers(ctx context.Context) ([]VirtualServer, error) {
	var out itemsOf[VirtualServer]
	err := c.gw.Get(ctx, "/api/virtual-servers", &out)
	return out.Items, err
}

func (c *Client) RenameVirtualServer(ctx context.Context, id, name string) error {
	return c.gw.Patch(ctx, "/api/virtual-servers/"+url.PathEscape(id),
		map[string]string{"name": name}, nil)
}

func (c *Client) SetVirtualServerStatus(ctx context.Context, id string, status Status) error {
	return c.gw.Patch(ctx, "/api/virtual-servers/"+url.PathEscape(id)+"/status",
		map[string]Status{"status": status}, nil)
}

func (c *Client) DeleteVirtualServer(ctx context.Context, id string) error {
	return c.gw.Delete(ctx, "/api/virtual-servers/"+url.PathEscape(id), nil)
}

func (c *Client) VirtualServerTools(ctx context.Context, id string) ([]Tool, error) {
	var out itemsOf[Tool]
	err := c.gw.Get(ctx, "/api/virtual-servers/"+url.PathEscape(id)+"/tools", &out)
	return out.Items, err
}

// ReplaceVirtualServerTools swaps the full tool set of a virtual server.
func (c *Client) ReplaceVirtualServerTools(ctx context.Context, id string, toolIDs []string) error {
	return c.gw.Put(ctx, "/api/virtual-servers/"+url.PathEscape(id)+"/tools",
		map[string][]string{"tool_ids": toolIDs}, nil)
}

func (c *Client) RemoveVirtualServerTool(ctx context.Context, id, toolID string) error {
	return c.gw.Delete(ctx, "/api/virtual-servers/"+url.PathEscape(id)+"/tools/"+url.PathEscape(toolID), nil)
}
