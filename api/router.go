package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/api/handlers"
	"github.com/yourusername/downtube-go/api/middleware"
	"github.com/yourusername/downtube-go/internal/app"
	"github.com/yourusername/downtube-go/pkg/logger"
	"github.com/yourusername/downtube-go/web"
)

// SetupRouter sets up the read-only HTTP API over the download history and the log
func SetupRouter(history *app.HistoryService, logReader *logger.LogReader, log *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	page, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()

	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	healthHandler := handlers.NewHealthHandler(history)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		downloadHandler := handlers.NewDownloadHandler(history, log)
		downloads := v1.Group("/downloads")
		{
			downloads.GET("", downloadHandler.ListDownloads)
			downloads.GET("/stats", downloadHandler.GetStats)
			downloads.GET("/:id", downloadHandler.GetDownload)
			downloads.DELETE("/:id", downloadHandler.DeleteDownload)
		}

		logHandler := handlers.NewLogHandler(logReader)
		streamHandler := handlers.NewLogStreamHandler(logReader, log)
		logs := v1.Group("/logs")
		{
			logs.GET("", logHandler.GetLogs)
			logs.GET("/export", logHandler.ExportLogs)
			logs.GET("/stream", streamHandler.Stream)
		}
	}

	statusHandler := handlers.NewStatusHandler(history, page, log)
	router.GET("/", statusHandler.Index)
	router.StaticFS("/static", http.FS(web.StaticFS()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router, nil
}
