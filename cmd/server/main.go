package main

import (
	"careers-page-builder/auth"
	"careers-page-builder/internal/config"
	"careers-page-builder/internal/datasource"
	"careers-page-builder/internal/logger"
	"careers-page-builder/internal/revalidate"
	"careers-page-builder/internal/utils"
	"careers-page-builder/internal/worker"
	"careers-page-builder/redis"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := &config.AppConfig

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "careers-page-builder",
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.GetLogger()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	auth.Configure(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	utils.RegisterValidators()

	// Initialize Redis; the service runs without it
	redisClient := redis.InitRedis(cfg.RedisAddress, zlog)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Select the data source once for the whole process
	ds, err := datasource.Open(context.Background(), cfg, redisClient, zlog)
	if err != nil {
		zlog.Fatal("Failed to open data source", zap.Error(err))
	}
	defer ds.Close()
	zlog.Info("Data source selected", zap.String("mode", string(ds.Mode)))

	pool := worker.NewWorkerPool(cfg.WorkerPoolSize)

	router := newRouter(deps{
		cfg:         cfg,
		ds:          ds,
		cache:       redis.NewCache(redisClient),
		pool:        pool,
		revalidator: revalidate.NewClient(cfg.RevalidateURL, cfg.RevalidateSecret),
	})

	// Server configuration
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		zlog.Info("Server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("Server shutdown error", zap.Error(err))
	}
	pool.Shutdown()

	zlog.Info("Server shutdown complete")
}
