package mockgw

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mcpgate/console/internal/api"
)

// state is the in-memory resource store behind the mock gateway. It exists
// for local development and tests; nothing here persists.
type state struct {
	mu       sync.Mutex
	catalog  map[string]api.CatalogServer
	hubs     map[string]api.HubServer
	tools    map[string]api.Tool
	virtual  map[string]api.VirtualServer
	vsTools map[string][]string // virtual server id -> tool ids
}

func newState() *state {
	return &state{
		catalog: make(map[string]api.CatalogServer),
		hubs:    make(map[string]api.HubServer),
		tools:   make(map[string]api.Tool),
		virtual: make(map[string]api.VirtualServer),
		vsTools: make(map[string][]string),
	}
}

// seed loads a small demo catalog so a fresh mock gateway is not empty.
func (s *state) seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cs := range []api.CatalogServer{
		{ID: uuid.NewString(), Name: "github", URL: "https://mcp.github.example", Description: "GitHub tools", AccessType: "public", Transport: "streamable-http"},
		{ID: uuid.NewString(), Name: "postgres", URL: "https://mcp.pg.example", Description: "Database tools", AccessType: "private", Transport: "streamable-http"},
	} {
		s.catalog[cs.ID] = cs
	}
}

func (s *state) catalogByName(name string) (api.CatalogServer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cs := range s.catalog {
		if cs.Name == name {
			return cs, true
		}
	}
	return api.CatalogServer{}, false
}

// refreshTools fabricates a tool diff for a refresh action: two discovered
// tools are added for the server, nothing is deleted.
func (s *state) refreshTools(serverID, hubServerID, userID string) api.RefreshSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]api.Tool, 0, 2)
	for i := 0; i < 2; i++ {
		name := "tool_" + uuid.NewString()[:8]
		tool := api.Tool{
			ID:             uuid.NewString(),
			UserID:         userID,
			MCPServerID:    serverID,
			MCPHubServerID: hubServerID,
			OriginalName:   name,
			ModifiedName:   name,
			Status:         api.StatusActive,
		}
		s.tools[tool.ID] = tool
		added = append(added, tool)
	}

	return api.RefreshSummary{
		OK:           true,
		Added:        added,
		Deleted:      []api.Tool{},
		TotalAdded:   len(added),
		TotalDeleted: 0,
	}
}
