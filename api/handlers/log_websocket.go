package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/pkg/logger"
)

const (
	initialStreamEntries = 50
	pingInterval         = 30 * time.Second
)

// TailInterval is how often the stream checks the log for new lines
var TailInterval = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LogStreamHandler streams log entries over a websocket
type LogStreamHandler struct {
	logReader *logger.LogReader
	logger    *zap.Logger
}

// NewLogStreamHandler creates a new websocket handler
func NewLogStreamHandler(logReader *logger.LogReader, log *zap.Logger) *LogStreamHandler {
	return &LogStreamHandler{
		logReader: logReader,
		logger:    log,
	}
}

// Stream handles GET /api/v1/logs/stream: the latest entries first, then new ones as they are written
func (h *LogStreamHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("WebSocket client connected", zap.String("remote_addr", c.Request.RemoteAddr))

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	entries := make(chan logger.LogEntry, 100)
	go func() {
		if err := h.logReader.TailLogs(ctx, entries, TailInterval); err != nil {
			h.logger.Error("Log tailing error", zap.Error(err))
		}
	}()

	backlog, err := h.logReader.ReadLogs(initialStreamEntries)
	if err == nil {
		for _, entry := range backlog {
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
		}
	}

	// The client never sends data; reading surfaces the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case entry := <-entries:
			if err := conn.WriteJSON(entry); err != nil {
				h.logger.Debug("Failed to send log entry", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
