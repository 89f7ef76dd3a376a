package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/config"
	"github.com/menna-app/menna-go/internal/datasource"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/metrics"
	"github.com/menna-app/menna-go/internal/stub"
	"github.com/menna-app/menna-go/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server, err := newServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize stub backend", zap.Error(err))
		os.Exit(1)
	}

	if err := server.Run(ctx, cfg.Stub.Addr); err != nil {
		logger.Error("Stub backend stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}

func newServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stub.Server, error) {
	catalog, err := domain.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	fixture, err := datasource.LoadFixture()
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	providers, err := fixture.ListProviders(ctx, domain.ProviderFilter{})
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics("stub").WithRuntimeCollectors()
	server := stub.NewServer(stub.NewStore(catalog, providers), stub.NewTokenIssuer(cfg.Stub.JWTSecret), logger,
		stub.WithMetrics(m),
	)

	if cfg.Stub.DemoEmail != "" {
		if _, err := server.RegisterUser(cfg.Stub.DemoEmail, cfg.Stub.DemoPassword); err != nil {
			return nil, fmt.Errorf("failed to seed demo user: %w", err)
		}
		logger.Info("Demo user ready", zap.String("email", cfg.Stub.DemoEmail))
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("Metrics endpoint stopped", zap.Error(err))
			}
		}()
	}
	return server, nil
}
