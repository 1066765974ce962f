package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/downtube-go/internal/app"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	history *app.HistoryService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(history *app.HistoryService) *HealthHandler {
	return &HealthHandler{
		history: history,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	History struct {
		Available bool `json:"available"`
	} `json:"history"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: Version,
	}
	response.History.Available = h.historyAvailable()

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.historyAvailable() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "history store unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *HealthHandler) historyAvailable() bool {
	if h.history == nil {
		return false
	}
	_, err := h.history.GetStats()
	return err == nil
}
