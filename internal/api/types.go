package api

import "encoding/json"

// Status is the lifecycle status of tools, hub servers, and virtual servers.
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusDeactivated Status = "DEACTIVATED"
	StatusUnreachable Status = "UNREACHABLE"
)

// CatalogServer is a registered upstream service definition, shared across users.
type CatalogServer struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	URL          string          `json:"url"`
	Description  string          `json:"description"`
	AccessType   string          `json:"access_type,omitempty"` // "public" | "private"
	Transport    string          `json:"transport,omitempty"`
	Capabilities json.RawMessage `json:"capabilities,omitempty"`
}

// HubServer is a user-scoped subscription to a catalog server, carrying its
// own auth material. Server details are joined in by the gateway.
type HubServer struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"user_id"`
	MCPServerID string `json:"mcp_server_id"`
	Status      Status `json:"status"`
	AuthType    string `json:"auth_type,omitempty"`
	AuthValue   string `json:"auth_value,omitempty"`

	Name         string          `json:"name,omitempty"`
	URL          string          `json:"url,omitempty"`
	Description  string          `json:"description,omitempty"`
	Capabilities json.RawMessage `json:"capabilities,omitempty"`
	Transport    string          `json:"transport,omitempty"`
	AccessType   string          `json:"access_type,omitempty"`
}

// Tool is a renamed, individually toggleable capability sourced from a hub
// server. Earlier gateway revisions sent the hub reference as hub_server_id;
// the current shape is mcp_hub_server_id and is the one modeled here.
type Tool struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id,omitempty"` // empty for global tools
	MCPServerID    string          `json:"mcp_server_id"`
	MCPHubServerID string          `json:"mcp_hub_server_id,omitempty"`
	OriginalName   string          `json:"original_name"`
	ModifiedName   string          `json:"modified_name"`
	Status         Status          `json:"status"`
	Description    string          `json:"description,omitempty"`
	InputSchema    json.RawMessage `json:"input_schema,omitempty"`
	Annotations    json.RawMessage `json:"annotations,omitempty"`
}

// VirtualServer is a named, user-defined bundle of tools exposed as one
// addressable endpoint.
type VirtualServer struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Status Status `json:"status"`
}

// Identity is the session identity returned by the auth endpoints.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}

// RefreshSummary is the diff reported by the refresh actions.
type RefreshSummary struct {
	OK           bool   `json:"ok"`
	Added        []Tool `json:"added"`
	Deleted      []Tool `json:"deleted"`
	TotalAdded   int    `json:"total_added"`
	TotalDeleted int    `json:"total_deleted"`
}

// CreateCatalogRequest is the payload for registering a catalog server.
type CreateCatalogRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	AccessType  string `json:"access_type,omitempty"`
	Transport   string `json:"transport,omitempty"`
}

// UpdateCatalogRequest is the partial-update payload for a catalog server.
type UpdateCatalogRequest struct {
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// AddHubRequest subscribes the current user to a catalog server.
type AddHubRequest struct {
	MCPServerID string `json:"mcp_server_id"`
	AuthType    string `json:"auth_type,omitempty"`
	AuthValue   string `json:"auth_value,omitempty"`
}
