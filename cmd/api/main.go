package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FrigaaAbdou/show-backend/internal/config"
	"github.com/FrigaaAbdou/show-backend/internal/server"
	"github.com/FrigaaAbdou/show-backend/internal/storage"
)

// main loads configuration, opens the configured store and serves the API
// until SIGINT or SIGTERM.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Warnf("closing storage: %v", err)
		}
	}()

	app := server.New(cfg, stores)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("starting server on %s (store=%s)", cfg.Addr, cfg.StoreDriver)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Errorf("server stopped: %v", err)
	}
}
