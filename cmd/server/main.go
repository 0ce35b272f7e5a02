package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/pgn2tex/internal/api"
	"github.com/vytor/pgn2tex/internal/config"
	"github.com/vytor/pgn2tex/internal/logger"
	"github.com/vytor/pgn2tex/internal/services"
)

func main() {
	cfg := config.Load()
	if path := os.Getenv("PGN2TEX_CONFIG"); path != "" {
		if err := config.LoadFile(path, &cfg); err != nil {
			logger.Error("failed to load render profile: %v", err)
			os.Exit(1)
		}
	}
	cfg.Normalize()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("pgn2tex render server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("mode=%s fontsize=%d rows_per_page=%d notation=%s", cfg.Mode, cfg.FontSize, cfg.RowsPerColumn, cfg.Notation)
	log.Debug("max_body_bytes=%d", cfg.MaxBodyBytes)
	log.Debug("log_level=%s", cfg.LogLevel)

	srv := &api.Server{
		ConvertService: services.NewConvertService(),
		Base:           cfg,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("pgn2tex render server stopped")
}
