package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"moviehub/internal/api"
	"moviehub/internal/app"
	"moviehub/internal/movies"
	"moviehub/internal/session"
	"moviehub/internal/supervisor"
	"moviehub/pkg/logging"
	"moviehub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("config load failed")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("catalog load failed")
	}
	svc := movies.NewService(a.Query, a.Recommend)

	hub := session.NewHub()
	hub.LimitFrames(cfg.Server.SessionRate, cfg.Server.SessionBurst)
	router := api.NewRouter(cfg.Server, a, svc, hub)

	tree := supervisor.New("api-server", supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})
	tree.Add(supervisor.NewHTTPService(api.NewHTTPServer(cfg.Server, router), cfg.Server.ShutdownTimeout))
	if cfg.Server.TCPAddr != "" {
		tree.Add(supervisor.NewSessionService(session.NewServer(cfg.Server.TCPAddr, hub, svc), hub))
	}

	logging.Info().Str("addr", cfg.Server.Addr).Str("tcp_addr", cfg.Server.TCPAddr).Msg("HTTP API server starting")
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor stopped")
	}

	// websocket sessions are hijacked and outlive http.Server.Shutdown
	hub.CloseAll()
	logging.Info().Msg("servers stopped")
}
