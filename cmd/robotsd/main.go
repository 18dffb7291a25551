package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"robot-registry/config"
	"robot-registry/internal/api"
	"robot-registry/internal/app"
	"robot-registry/internal/logs"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		logrus.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logs.Init(logs.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logrus.Infof("configuration loaded from %s", configPath)

	if logrus.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	services, err := app.New(cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}
	defer services.Close()

	handler := api.NewHandler(services.Repository, services.Validator, services.Transfer, cfg.Transfer.ExportFilename)
	router := api.NewRouter(handler, cfg.Server)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("HTTP server Shutdown: %v", err)
		return
	}

	logrus.Info("Server gracefully stopped")
}
