package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/perf-timing-backend-go/internal/service"
)

// ExportHandler serves session downloads
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportSession handles GET /api/v1/sessions/:id/export/:format
func (h *ExportHandler) ExportSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	file, err := h.exportService.Export(c.Request.Context(), id, c.Param("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, file)
}

// ExportBundle handles GET /api/v1/sessions/:id/export
func (h *ExportHandler) ExportBundle(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	file, err := h.exportService.Bundle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, file)
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", contentDisposition(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// contentDisposition quotes an ASCII filename, adding an RFC 5987 filename*
// parameter when the name has non-ASCII characters
func contentDisposition(name string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)

	if ascii == name {
		return fmt.Sprintf(`attachment; filename="%s"`, name)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, url.PathEscape(name))
}
