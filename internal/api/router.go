package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/perf-timing-backend-go/internal/config"
	"github.com/jengzang/perf-timing-backend-go/internal/handler"
	"github.com/jengzang/perf-timing-backend-go/internal/middleware"
	"github.com/jengzang/perf-timing-backend-go/internal/service"
)

// Services bundles what the router dispatches to
type Services struct {
	Sessions *service.SessionService
	Metrics  *service.MetricsService
	Exports  *service.ExportService
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc Services, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Performance timing API is running",
			"time":    time.Now().UTC(),
		})
	})

	sessionHandler := handler.NewSessionHandler(svc.Sessions)
	metricsHandler := handler.NewMetricsHandler(svc.Metrics)
	exportHandler := handler.NewExportHandler(svc.Exports)
	auth := middleware.JWTAuth(cfg.JWTSecret)

	api := r.Group("/api/v1")
	{
		metrics := api.Group("/metrics")
		{
			metrics.GET("/types", metricsHandler.ListMetricTypes)
			metrics.POST("/compute", metricsHandler.ComputeMetrics)
		}

		sessions := api.Group("/sessions")
		{
			sessions.GET("", sessionHandler.ListSessions)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.GET("/:id/metrics", metricsHandler.GetSessionMetrics)
			sessions.GET("/:id/export", exportHandler.ExportBundle)
			sessions.GET("/:id/export/:format", exportHandler.ExportSession)

			sessions.POST("", auth, sessionHandler.StartSession)
			sessions.POST("/:id/samples", auth, sessionHandler.AddSamples)
			sessions.POST("/:id/stop", auth, sessionHandler.StopSession)
			sessions.DELETE("/:id", auth, sessionHandler.DeleteSession)
			sessions.DELETE("", auth, sessionHandler.ClearSessions)
		}
	}

	return r
}
