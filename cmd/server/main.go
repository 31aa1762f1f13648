package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"taskmanager-api/internal/config"
	"taskmanager-api/internal/logging"
	"taskmanager-api/internal/server"
	"taskmanager-api/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// logger is not configured yet, the default one still writes to stderr
		logging.Logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging first
	logging.InitLogger(cfg.Log)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		logging.Logger.Fatalf("Failed to open %s storage: %v", cfg.Store.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.WithStore(store.Driver()).Warnf("Failed to close storage: %v", err)
		}
	}()

	if cfg.Store.AutoInit {
		if err := store.Init(ctx); err != nil {
			logging.Logger.Fatalf("Failed to initialize storage: %v", err)
		}
	}
	logging.WithStore(store.Driver()).Info("Storage initialized successfully")

	srv, err := server.New(cfg.Server, server.NewRouter(cfg, store))
	if err != nil {
		logging.Logger.Fatalf("Failed to configure server: %v", err)
	}

	if err := srv.Run(ctx); err != nil {
		logging.Logger.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}
