package mockgw

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mcpgate/console/internal/api"
)

func registerResourceRoutes(app *fiber.App, s *Server) {
	r := app.Group("/api", s.requireAuth)

	r.Get("/catalog/servers", s.listCatalog)
	r.Post("/catalog/servers", s.addCatalog)
	r.Patch("/catalog/servers/:id", s.updateCatalog)
	r.Post("/catalog/servers/:id/refresh", s.refreshCatalog)
	r.Get("/catalog/servers/:id/tools", s.catalogTools)

	r.Get("/hub/servers", s.listHubs)
	r.Post("/hub/servers", s.addHub)
	r.Delete("/hub/servers/:id", s.deleteHub)
	r.Post("/hub/servers/:id/refresh", s.refreshHub)

	r.Get("/tools", s.listTools)
	r.Patch("/tools/:id/status", s.setToolStatus)
	r.Delete("/tools/:id", s.deleteTool)

	r.Post("/virtual-servers", s.createVirtualServer)
	r.Get("/virtual-servers", s.listVirtualServers)
	r.Patch("/virtual-servers/:id", s.renameVirtualServer)
	r.Patch("/virtual-servers/:id/status", s.setVirtualServerStatus)
	r.Delete("/virtual-servers/:id", s.deleteVirtualServer)
	r.Get("/virtual-servers/:id/tools", s.virtualServerTools)
	r.Put("/virtual-servers/:id/tools", s.replaceVirtualServerTools)
	r.Delete("/virtual-servers/:id/tools/:tool_id", s.removeVirtualServerTool)
}

func (s *Server) listCatalog(c *fiber.Ctx) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]api.CatalogServer, 0, len(s.state.catalog))
	for _, cs := range s.state.catalog {
		items = append(items, cs)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

func (s *Server) addCatalog(c *fiber.Ctx) error {
	var req api.CreateCatalogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Name == "" || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and url are required"})
	}
	if _, exists := s.state.catalogByName(req.Name); exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "name already exists"})
	}

	cs := api.CatalogServer{
		ID:          uuid.NewString(),
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		AccessType:  req.AccessType,
		Transport:   req.Transport,
	}
	s.state.mu.Lock()
	s.state.catalog[cs.ID] = cs
	s.state.mu.Unlock()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": cs.ID})
}

func (s *Server) updateCatalog(c *fiber.Ctx) error {
	var req api.UpdateCatalogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	cs, ok := s.state.catalog[c.Params("id")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "server not found"})
	}
	if req.URL != "" {
		cs.URL = req.URL
	}
	if req.Description != "" {
		cs.Description = req.Description
	}
	s.state.catalog[cs.ID] = cs
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func (s *Server) refreshCatalog(c *fiber.Ctx) error {
	id := c.Params("id")
	s.state.mu.Lock()
	_, ok := s.state.catalog[id]
	s.state.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "server not found"})
	}
	return c.Status(fiber.StatusOK).JSON(s.state.refreshTools(id, "", ""))
}

func (s *Server) catalogTools(c *fiber.Ctx) error {
	id := c.Params("id")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]api.Tool, 0)
	for _, tool := range s.state.tools {
		if tool.MCPServerID == id {
			items = append(items, tool)
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

func (s *Server) listHubs(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]api.HubServer, 0)
	for _, h := range s.state.hubs {
		if h.UserID == uid {
			items = append(items, h)
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

func (s *Server) addHub(c *fiber.Ctx) error {
	var req api.AddHubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	cs, ok := s.state.catalog[req.MCPServerID]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "catalog server not found"})
	}
	hub := api.HubServer{
		ID:          uuid.NewString(),
		UserID:      c.Locals("user_id").(string),
		MCPServerID: cs.ID,
		Status:      api.StatusActive,
		AuthType:    req.AuthType,
		AuthValue:   req.AuthValue,
		Name:        cs.Name,
		URL:         cs.URL,
		Description: cs.Description,
		Transport:   cs.Transport,
		AccessType:  cs.AccessType,
	}
	s.state.hubs[hub.ID] = hub
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": hub.ID})
}

func (s *Server) deleteHub(c *fiber.Ctx) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if _, ok := s.state.hubs[c.Params("id")]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "hub server not found"})
	}
	delete(s.state.hubs, c.Params("id"))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": "true"})
}

func (s *Server) refreshHub(c *fiber.Ctx) error {
	id := c.Params("id")
	s.state.mu.Lock()
	hub, ok := s.state.hubs[id]
	s.state.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "hub server not found"})
	}
	return c.Status(fiber.StatusOK).JSON(s.state.refreshTools(hub.MCPServerID, hub.ID, hub.UserID))
}

func (s *Server) listTools(c *fiber.Ctx) error {
	serverID := c.Query("server_id")
	status := c.Query("status")

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]api.Tool, 0)
	for _, tool := range s.state.tools {
		if serverID != "" && tool.MCPServerID != serverID {
			continue
		}
		if status != "" && string(tool.Status) != status {
			continue
		}
		items = append(items, tool)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

func (s *Server) setToolStatus(c *fiber.Ctx) error {
	var body struct {
		Status api.Status `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	tool, ok := s.state.tools[c.Params("id")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tool not found"})
	}
	tool.Status = body.Status
	s.state.tools[tool.ID] = tool
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": "true"})
}

func (s *Server) deleteTool(c *fiber.Ctx) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if _, ok := s.state.tools[c.Params("id")]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tool not found"})
	}
	delete(s.state.tools, c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) createVirtualServer(c *fiber.Ctx) error {
	var body struct {
		Name    string   `json:"name"`
		ToolIDs []string `json:"tool_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vs := api.VirtualServer{
		ID:     uuid.NewString(),
		UserID: c.Locals("user_id").(string),
		Name:   body.Name,
		Status: api.StatusActive,
	}
	s.state.mu.Lock()
	s.state.virtual[vs.ID] = vs
	s.state.vsTools[vs.ID] = body.ToolIDs
	s.state.mu.Unlock()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": vs.ID})
}

func (s *Server) listVirtualServers(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]api.VirtualServer, 0)
	for _, vs := range s.state.virtual {
		if vs.UserID == uid {
			items = append(items, vs)
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

func (s *Server) renameVirtualServer(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	vs, ok := s.state.virtual[c.Params("id")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "virtual server not found"})
	}
	vs.Name = body.Name
	s.state.virtual[vs.ID] = vs
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": "true"})
}

func (s *Server) setVirtualServerStatus(c *fiber.Ctx) error {
	var body struct {
		Status api.Status `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	vs, ok := s.state.virtual[c.Params("id")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "virtual server not found"})
	}
	vs.Status = body.Status
	s.state.virtual[vs.ID] = vs
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": "true"})
}

func (s *Server) deleteVirtualServer(c *fiber.Ctx) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if _, ok := s.state.virtual[c.Params("id")]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "virtual server not found"})
	}
	delete(s.state.virtual, c.Params("id"))
	delete(s.state.vsTools, c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) virtualServerTools(c *fiber.Ctx) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]api.Tool, 0)
	for _, toolID := range s.state.vsTools[c.Params("id")] {
		if tool, ok := s.state.tools[toolID]; ok {
			items = append(items, tool)
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

func (s *Server) replaceVirtualServerTools(c *fiber.Ctx) error {
	var body struct {
		ToolIDs []string `json:"tool_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if _, ok := s.state.virtual[c.Params("id")]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "virtual server not found"})
	}
	s.state.vsTools[c.Params("id")] = body.ToolIDs
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": "true"})
}

func (s *Server) removeVirtualServerTool(c *fiber.Ctx) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	ids := s.state.vsTools[c.Params("id")]
	for i, id := range ids {
		if id == c.Params("tool_id") {
			s.state.vsTools[c.Params("id")] = append(ids[:i], ids[i+1:]...)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": "true"})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tool not in virtual server"})
}
