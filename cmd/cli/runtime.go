package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/app"
	"github.com/yourusername/downtube-go/internal/domain"
	"github.com/yourusername/downtube-go/internal/infrastructure"
	"github.com/yourusername/downtube-go/pkg/logger"
)

// runtime holds what every command shares: configuration, the logger and the history store
type runtime struct {
	config *domain.Config
	log    *zap.Logger
	repo   *infrastructure.SQLiteDownloadRepository

	closeOnce sync.Once
}

func loadRuntime(configPath string, verbose bool) (*runtime, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	mirrorLevel := ""
	if verbose {
		mirrorLevel = "debug"
	}
	log, err := logger.NewTee(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	}, os.Stderr, mirrorLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{config: config, log: log}

	if config.History.Enabled {
		repo, err := infrastructure.NewSQLiteDownloadRepository(config.History.DatabasePath)
		if err != nil {
			log.Warn("History store unavailable, continuing without it",
				zap.String("path", config.History.DatabasePath),
				zap.Error(err))
		} else {
			rt.repo = repo
		}
	}

	return rt, nil
}

// history returns the repository as an interface, nil when the store is unavailable
func (rt *runtime) history() domain.DownloadRepository {
	if rt.repo == nil {
		return nil
	}
	return rt.repo
}

func (rt *runtime) newRunner(out, progress io.Writer, audioOnly bool) *app.Runner {
	download := &rt.config.Download

	extractor := infrastructure.NewYTDLPExtractor(download, rt.log)
	transcoder := infrastructure.NewFFmpegTranscoder(download.FFmpegBinary, download.SampleRate, rt.log)
	if audioOnly && !transcoder.Available() {
		rt.log.Warn("ffmpeg not found, audio conversion will fail",
			zap.String("binary", download.FFmpegBinary))
	}
	resolver := newPlaylistResolver(download, rt.log)
	notifier := infrastructure.NewNotificationService(&rt.config.Notification, rt.log)

	orchestrator := app.NewOrchestrator(extractor, transcoder, resolver, rt.history(), notifier, download, rt.log)
	orchestrator.SetProgressOutput(progress)

	batch := app.NewBatchProcessor(orchestrator, rt.log)
	batch.SetProgressOutput(progress)

	return app.NewRunner(orchestrator, batch, notifier, out, rt.log)
}

func newPlaylistResolver(download *domain.DownloadConfig, log *zap.Logger) *infrastructure.YouTubePlaylistResolver {
	resolver := infrastructure.NewYouTubePlaylistResolver(log)
	if download.PlaylistTimeout > 0 {
		resolver.SetTimeout(download.PlaylistTimeout)
	}
	return resolver
}

// Close closes the history store and flushes the logger
func (rt *runtime) Close() {
	rt.closeOnce.Do(func() {
		if rt.repo != nil {
			if err := rt.repo.Close(); err != nil {
				rt.log.Warn("Failed to close history store", zap.Error(err))
			}
		}
		_ = rt.log.Sync()
	})
}
