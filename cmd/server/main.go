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
	"github.com/jengzang/perf-timing-backend-go/internal/api"
	"github.com/jengzang/perf-timing-backend-go/internal/config"
	"github.com/jengzang/perf-timing-backend-go/internal/database"
	"github.com/jengzang/perf-timing-backend-go/internal/metrics"
	"github.com/jengzang/perf-timing-backend-go/internal/middleware"
	"github.com/jengzang/perf-timing-backend-go/internal/repository"
	"github.com/jengzang/perf-timing-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	sessions := service.NewSessionService(repository.NewSessionRepository(database.GetDB()), cfg.MaxStoredSessions)
	metricsService, err := service.NewMetricsService(sessions, metrics.NewEngine(), cfg.AccuracyThreshold, cfg.MetricsCacheSize)
	if err != nil {
		log.Fatal("Failed to initialize metrics service:", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	// 初始化路由
	router := api.SetupRouter(cfg, api.Services{
		Sessions: sessions,
		Metrics:  metricsService,
		Exports:  service.NewExportService(sessions, metricsService),
	}, limiter)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
