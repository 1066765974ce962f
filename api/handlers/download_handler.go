package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/app"
	"github.com/yourusername/downtube-go/internal/domain"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// DownloadHandler serves the download history
type DownloadHandler struct {
	history *app.HistoryService
	logger  *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(history *app.HistoryService, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		history: history,
		logger:  logger,
	}
}

// GetDownload handles GET /api/v1/downloads/:id
func (h *DownloadHandler) GetDownload(c *gin.Context) {
	download, err := h.history.GetDownload(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, download)
}

// ListDownloads handles GET /api/v1/downloads
func (h *DownloadHandler) ListDownloads(c *gin.Context) {
	filter := domain.DownloadFilter{
		Status: domain.DownloadStatus(c.Query("status")),
		Mode:   domain.DownloadMode(c.Query("mode")),
	}

	downloads, err := h.history.ListDownloads(filter, queryLimit(c, defaultListLimit, maxListLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"downloads": downloads,
		"count":     len(downloads),
	})
}

// GetStats handles GET /api/v1/downloads/stats
func (h *DownloadHandler) GetStats(c *gin.Context) {
	stats, err := h.history.GetStats()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteDownload handles DELETE /api/v1/downloads/:id
func (h *DownloadHandler) DeleteDownload(c *gin.Context) {
	if err := h.history.DeleteDownload(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "download deleted"})
}

func (h *DownloadHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
	case errors.Is(err, domain.ErrInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("History request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// queryLimit reads ?limit=, falling back to def and capping at max
func queryLimit(c *gin.Context, def, max int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit < 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
