package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jerseystand/event-sales/internal/adapter/handler"
	"github.com/jerseystand/event-sales/internal/adapter/storage"
	"github.com/jerseystand/event-sales/internal/config"
	"github.com/jerseystand/event-sales/internal/core/service"
	"github.com/jerseystand/event-sales/internal/logging"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	store, closeStore, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open state store", zap.Error(err))
	}
	defer closeStore()
	logger.Info("state store ready", zap.String("backend", cfg.StorageBackend))

	events := service.NewEventService(store, logger)
	if err := events.Restore(ctx); err != nil {
		logger.Fatal("failed to restore event state", zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(handler.RequestLogger(logger), gin.Recovery())
	handler.NewHandler(events, logger).Routes(router)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}
