package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/api"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/config"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/dashboard"
	"github.com/YogiRajNeelamsetti/coinpulse/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/coinpulse.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting coinpulse",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"api_url", cfg.API.BaseURL,
		"api_key_set", cfg.API.Key != "",
	)

	// Root context cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.Key,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	// Start the live session registry
	registry := dashboard.NewRegistry(cfg, apiClient, logger)
	if err := registry.Start(ctx); err != nil {
		logger.Error("failed to start session registry", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: dashboard.NewServer(cfg, apiClient, registry, logger),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http server shutdown", "error", err)
		}
		return registry.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("runtime error", "error", err)
		os.Exit(1)
	}

	logger.Info("coinpulse stopped")
}
