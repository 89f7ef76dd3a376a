package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/app"
	"github.com/menna-app/menna-go/internal/config"
	"github.com/menna-app/menna-go/internal/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Menna client starting...",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("locale", cfg.Locale.Default.String()),
		zap.String("data_source", string(cfg.Data.Source)),
	)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := container.Metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("Metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	// One-shot mode: the arguments form a single command line.
	if len(os.Args) > 1 {
		if err := container.Exec(ctx, strings.Join(os.Args[1:], " "), os.Stdout); err != nil {
			logger.Error("Command failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := container.Run(ctx, os.Stdin, os.Stdout); err != nil {
		logger.Error("Shell error", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
