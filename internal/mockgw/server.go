// Package mockgw is a self-contained stand-in for the MCP gateway, covering
// the slice of its HTTP contract the console consumes. It backs cmd/mock-gateway
// and the integration tests; it is not the real gateway.
package mockgw

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionCookie = "session"

// Config holds the mock gateway settings.
type Config struct {
	JWTSecret string
	// Users maps username -> password for the basic flow.
	Users map[string]string
	// SessionTTL bounds the session cookie lifetime.
	SessionTTL time.Duration
}

// Server wires the fiber app over the in-memory state.
type Server struct {
	cfg    Config
	logger *zap.Logger
	state  *state
}

// New builds the fiber application with all routes registered.
func New(cfg Config, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	s := &Server{cfg: cfg, logger: logger, state: newState()}
	s.state.seed()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(s.requestID)

	app.Post("/api/auth/google", s.loginGoogle)
	app.Post("/api/auth/basic", s.loginBasic)
	app.Post("/api/auth/logout", s.logout)
	app.Get("/api/auth/me", s.requireAuth, s.me)

	registerResourceRoutes(app, s)
	return app
}

// requestID injects an X-Request-Id header and echoes an inbound one.
func (s *Server) requestID(c *fiber.Ctx) error {
	rid := c.Get("X-Request-Id")
	if rid == "" {
		rid = uuid.NewString()
	}
	c.Set("X-Request-Id", rid)
	return c.Next()
}

// requireAuth resolves the caller from the session cookie or the basic
// header and rejects with 401 otherwise.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	uid := s.userFromRequest(c)
	if uid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	c.Locals("user_id", uid)
	return c.Next()
}

func (s *Server) userFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(sessionCookie); cookie != "" {
		if uid := s.userFromToken(cookie); uid != "" {
			return uid
		}
	}

	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Basic ") {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
		if err != nil {
			return ""
		}
		username, password, ok := strings.Cut(string(raw), ":")
		if ok && s.cfg.Users[username] == password && password != "" {
			return username
		}
	}
	return ""
}

func (s *Server) userFromToken(token string) string {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !parsed.Valid {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	uid, _ := claims["uid"].(string)
	return uid
}

func (s *Server) setSession(c *fiber.Ctx, uid string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": uid,
		"exp": time.Now().Add(s.cfg.SessionTTL).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
	})
	return nil
}

func (s *Server) loginGoogle(c *fiber.Ctx) error {
	var body struct {
		Credential string `json:"credential"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if body.Credential == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing credential"})
	}

	// The mock accepts any credential; the real gateway validates the ID token.
	uid := "google-user"
	if err := s.setSession(c, uid); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "token error"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user_id": uid, "email": uid + "@example.com"})
}

func (s *Server) loginBasic(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if s.cfg.Users[body.Username] != body.Password || body.Password == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid credentials"})
	}
	if err := s.setSession(c, body.Username); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "token error"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user_id": body.Username, "email": body.Username + "@example.com"})
}

func (s *Server) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		MaxAge:   -1,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) me(c *fiber.Ctx) error {
	uid := c.Locals("user_id").(string)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user_id": uid, "email": uid + "@example.com"})
}
