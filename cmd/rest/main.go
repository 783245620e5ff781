package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-resume-be/internal/bootstrap"
	"ai-resume-be/internal/config"
	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/server"
	"ai-resume-be/internal/service"
	"ai-resume-be/internal/tracer"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Tracing
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, appLogger)
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("MAIN", "Failed to build container", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	defer container.Close()

	// 4. Background reindex consumer
	if err := container.ConsumerService.Consume(ctx); err != nil {
		appLogger.Error("MAIN", "Failed to start consumer", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	if cfg.App.SyncOnStart {
		if err := service.RequestReindex(ctx, container.PublisherService, "startup"); err != nil {
			appLogger.Warn("MAIN", "Failed to request startup reindex", map[string]interface{}{"error": err})
		}
	}

	// 5. Server
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err})
	}
	appLogger.Info("MAIN", "Shutdown complete", nil)
}
