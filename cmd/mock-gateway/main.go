package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mcpgate/console/internal/mockgw"
	"github.com/mcpgate/console/pkg/config"
	"github.com/mcpgate/console/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init("mock-gateway", cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [mock-gateway]...")

	port := config.GetEnvInt("MOCK_GW_PORT", 8080)

	app := mockgw.New(mockgw.Config{
		JWTSecret:  config.GetEnv("MOCK_GW_JWT_SECRET", "dev-secret"),
		Users:      parseUsers(config.GetEnv("MOCK_GW_USERS", "admin:admin")),
		SessionTTL: cfg.SessionTTL,
	}, logger.L())

	go func() {
		logg.Infof("mock gateway listening on :%d", port)
		if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logg.Info("shutting down [mock-gateway]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.ShutdownWithContext(shutdownCtx) //nolint:errcheck
}

// parseUsers splits a comma-separated user:password list.
func parseUsers(raw string) map[string]string {
	users := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, pass, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || name == "" {
			continue
		}
		users[name] = pass
	}
	return users
}
