// cmd/signalcraft/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/FairForge/signalcraft/internal/api"
	"github.com/FairForge/signalcraft/internal/config"
	"github.com/FairForge/signalcraft/internal/datasource"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg := config.Default()
	if path := os.Getenv("SIGNALCRAFT_CONFIG"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			logger.Fatal("failed to load config file", zap.Error(err))
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)

	var provider datasource.Provider
	if cfg.Data.Seed != 0 {
		provider = datasource.NewSyntheticWithSeed(logger, cfg.Data.Seed)
		logger.Info("using seeded synthetic data", zap.Int64("seed", cfg.Data.Seed))
	} else {
		provider = datasource.NewSynthetic(logger)
		logger.Info("using synthetic data")
	}

	server := api.NewServer(cfg, logger, provider)

	// Seed stores before accepting traffic; fetch failures surface as error
	// notes rather than aborting startup.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := server.Bootstrap(bootCtx); err != nil {
		logger.Warn("initial data load incomplete", zap.Error(err))
	}
	bootCancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
		os.Exit(0)
	}()

	fmt.Printf("\n")
	fmt.Printf("╔══════════════════════════════════════╗\n")
	fmt.Printf("║      SignalCraft Server Started      ║\n")
	fmt.Printf("╠══════════════════════════════════════╣\n")
	fmt.Printf("║  API: http://localhost:%-13d ║\n", cfg.Server.Port)
	fmt.Printf("╚══════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}
