package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/downtube-go/pkg/logger"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
)

// LogHandler handles log-related requests
type LogHandler struct {
	logReader *logger.LogReader
}

// NewLogHandler creates a new log handler
func NewLogHandler(logReader *logger.LogReader) *LogHandler {
	return &LogHandler{
		logReader: logReader,
	}
}

// GetLogs handles GET /api/v1/logs. ?q= filters entries by a case-insensitive substring.
func (h *LogHandler) GetLogs(c *gin.Context) {
	limit := queryLimit(c, defaultLogLimit, maxLogLimit)

	var (
		entries []logger.LogEntry
		err     error
	)
	if query := c.Query("q"); query != "" {
		entries, err = h.logReader.SearchLogs(query, limit)
	} else {
		entries, err = h.logReader.ReadLogs(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// ExportLogs handles GET /api/v1/logs/export
func (h *LogHandler) ExportLogs(c *gin.Context) {
	path := h.logReader.Path()
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "log file not found"})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(path))
	c.Header("Content-Type", "application/octet-stream")

	c.File(path)
}
