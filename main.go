package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pastillero-service/config"
	"pastillero-service/database"
	"pastillero-service/handlers"
	"pastillero-service/logger"
	"pastillero-service/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "pastillero-service")
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect the store once; every handler shares it
	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		zlog.Fatal("Failed to initialize store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	zlog.Info("Store connected",
		zap.String("driver", store.Driver()),
		zap.String("database", store.Database()),
		zap.String("pill_collection", database.PillCollection),
		zap.String("statistics_collection", database.StatisticsCollection),
	)

	var m *metrics.Manager
	if cfg.Metrics.Enabled {
		m = metrics.NewManager()
	}

	gin.SetMode(cfg.Server.Mode)
	router := handlers.NewRouter(handlers.RouterOptions{
		Store:   store,
		Logger:  zlog,
		Metrics: m,
		BaseURL: "http://localhost:" + cfg.Server.Port,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		zlog.Error("Store close failed", zap.Error(err))
	}
}
