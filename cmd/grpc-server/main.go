package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"moviehub/internal/app"
	"moviehub/internal/grpcserver"
	"moviehub/internal/metrics"
	"moviehub/internal/movies"
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
	metrics.SetCatalogSize(a.Catalog.Len(), a.Recommend.Matrix.Len())

	svc := grpcserver.NewServer(movies.NewService(a.Query, a.Recommend))
	healthSrv := health.NewServer()

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor))
	grpcserver.RegisterMovieServiceServer(grpcServer, svc)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(grpcserver.ServiceName, healthpb.HealthCheckResponse_SERVING)

	tree := supervisor.New("grpc-server", supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})
	tree.Add(supervisor.NewGRPCService(grpcServer, cfg.Server.GRPCAddr))

	logging.Info().Str("addr", cfg.Server.GRPCAddr).Msg("gRPC server starting")
	go func() {
		<-ctx.Done()
		healthSrv.Shutdown()
	}()
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor stopped")
	}
	logging.Info().Msg("gRPC server stopped")
}
