package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcpgate/console/internal/api"
	"github.com/mcpgate/console/internal/console"
	"github.com/mcpgate/console/internal/creds"
	"github.com/mcpgate/console/internal/gateway"
	"github.com/mcpgate/console/internal/session"
	"github.com/mcpgate/console/pkg/config"
	"github.com/mcpgate/console/pkg/eventbus"
	"github.com/mcpgate/console/pkg/logger"
	"github.com/mcpgate/console/pkg/utils"

	"github.com/mcpgate/console/internal/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [console]...")
	logg.Info("gateway: ", utils.MaskURL(cfg.GatewayURL))

	// --- Persisted credential tier ---
	store, err := newSessionStore(cfg)
	if err != nil {
		logg.Fatalw("failed to init session store", "error", err)
	}

	// --- Event bus + credential store ---
	bus := eventbus.New()
	credStore := creds.NewStore(store, logger.L())

	// --- Gateway client + typed api ---
	gw := gateway.NewClient(cfg.GatewayURL, nil, credStore, bus, logger.L())
	apiClient := api.New(gw)

	// --- Notifications ---
	scheduler := notify.NewScheduler(bus)

	// --- Delegated identity source (only when configured) ---
	var tokens *session.StaticTokenSource
	var tokenSource session.TokenSource
	if cfg.GoogleClientID != "" {
		tokens = session.NewStaticTokenSource()
		tokenSource = tokens
	}

	// --- Session controller ---
	sessions := session.NewController(apiClient, credStore, bus, tokenSource, logger.L())
	defer sessions.Close()

	// --- Metrics endpoint ---
	if cfg.MetricsPort > 0 {
		gateway.StartMetricsServer(fmt.Sprintf(":%d", cfg.MetricsPort))
	}

	app := console.NewApp(apiClient, sessions, scheduler, tokens, logger.L(), os.Stdin, os.Stdout)
	app.Run(ctx)

	logg.Info("shutting down [console]...")
}

// newSessionStore picks the persisted tier backend from configuration.
func newSessionStore(cfg *config.Config) (creds.SessionStore, error) {
	switch cfg.SessionStore {
	case "redis":
		return creds.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTL)
	default:
		return creds.NewFileStore(cfg.SessionDir, cfg.SessionTTL)
	}
}
