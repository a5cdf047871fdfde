package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/perf-timing-backend-go/internal/models"
	"github.com/jengzang/perf-timing-backend-go/internal/service"
	"github.com/jengzang/perf-timing-backend-go/pkg/response"
)

// SessionHandler handles HTTP requests for recording sessions
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// addSamplesRequest carries either recorded samples or decoded device fixes
type addSamplesRequest struct {
	Samples []models.LocationSample `json:"samples" binding:"omitempty,dive"`
	Fixes   []models.DeviceFix      `json:"fixes" binding:"omitempty,dive"`
}

// StartSession handles POST /api/v1/sessions
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req service.StartSessionRequest
	// An empty body starts an unnamed session at the maximum rate
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, session)
}

// ListSessions handles GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var filter models.SessionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.sessionService.ListSessions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, result)
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, session)
}

// AddSamples handles POST /api/v1/sessions/:id/samples
func (h *SessionHandler) AddSamples(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req addSamplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if len(req.Samples) > 0 && len(req.Fixes) > 0 {
		response.BadRequest(c, "Provide either samples or fixes, not both")
		return
	}

	var (
		count int
		err   error
	)
	if len(req.Fixes) > 0 {
		count, err = h.sessionService.AddDeviceFixes(c.Request.Context(), id, req.Fixes)
	} else {
		count, err = h.sessionService.AddSamples(c.Request.Context(), id, req.Samples)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"sessionId":   id,
		"sampleCount": count,
	})
}

// StopSession handles POST /api/v1/sessions/:id/stop
func (h *SessionHandler) StopSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.StopSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, session)
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// ClearSessions handles DELETE /api/v1/sessions
func (h *SessionHandler) ClearSessions(c *gin.Context) {
	n, err := h.sessionService.ClearAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": n})
}
