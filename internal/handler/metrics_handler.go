package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/jengzang/perf-timing-backend-go/internal/service"
	"github.com/jengzang/perf-timing-backend-go/pkg/response"
)

// MetricsHandler handles HTTP requests for performance metrics
type MetricsHandler struct {
	metricsService *service.MetricsService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(metricsService *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
	}
}

type computeRequest struct {
	Samples           []models.LocationSample `json:"samples" binding:"required,dive"`
	AccuracyThreshold *float64                `json:"accuracyThreshold"`
}

// ListMetricTypes handles GET /api/v1/metrics/types
func (h *MetricsHandler) ListMetricTypes(c *gin.Context) {
	response.Success(c, h.metricsService.MetricTypes())
}

// ComputeMetrics handles POST /api/v1/metrics/compute
func (h *MetricsHandler) ComputeMetrics(c *gin.Context) {
	var req computeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	summary, err := h.metricsService.Compute(c.Request.Context(), req.Samples, req.AccuracyThreshold)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, summary)
}

// GetSessionMetrics handles GET /api/v1/sessions/:id/metrics
func (h *MetricsHandler) GetSessionMetrics(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var threshold *float64
	if raw := c.Query("accuracyThreshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "Invalid accuracyThreshold parameter")
			return
		}
		threshold = &v
	}

	summary, err := h.metricsService.ComputeForSession(c.Request.Context(), id, threshold)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, summary)
}
