package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jengzang/perf-timing-backend-go/internal/service"
	"github.com/jengzang/perf-timing-backend-go/pkg/response"
)

// respondError maps service errors onto HTTP responses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, "Session not found")
	case errors.Is(err, service.ErrSessionNotRecording):
		response.Conflict(c, "Session is not recording")
	case errors.Is(err, service.ErrNoSamples),
		errors.Is(err, service.ErrUnorderedSamples),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrUnsupportedFormat):
		response.BadRequest(c, err.Error())
	default:
		log.Printf("[Handler] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.Error(err)
		response.InternalError(c, "Internal server error")
	}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
