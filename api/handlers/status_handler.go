package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/app"
	"github.com/yourusername/downtube-go/internal/domain"
)

const statusPageDownloads = 20

// StatusHandler renders the HTML status page
type StatusHandler struct {
	history *app.HistoryService
	page    *template.Template
	logger  *zap.Logger
}

// NewStatusHandler creates a status page handler. page must define index.html.
func NewStatusHandler(history *app.HistoryService, page *template.Template, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		history: history,
		page:    page,
		logger:  logger,
	}
}

type statusPage struct {
	Stats     *domain.DownloadStats
	Downloads []*domain.Download
}

// Index handles GET /
func (h *StatusHandler) Index(c *gin.Context) {
	stats, err := h.history.GetStats()
	if err != nil {
		h.logger.Error("Failed to load stats", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to load stats: %v", err)
		return
	}

	downloads, err := h.history.ListDownloads(domain.DownloadFilter{}, statusPageDownloads)
	if err != nil {
		h.logger.Error("Failed to load downloads", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to load downloads: %v", err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.page.ExecuteTemplate(c.Writer, "index.html", statusPage{Stats: stats, Downloads: downloads}); err != nil {
		h.logger.Error("Failed to render status page", zap.Error(err))
	}
}
