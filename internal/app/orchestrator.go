package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/domain"
)

// Request carries the per-run download settings
type Request struct {
	AudioOnly bool
	Playlist  bool
	Quality   string
	OutputDir string
}

func (r Request) mode() domain.DownloadMode {
	if r.AudioOnly {
		return domain.ModeAudio
	}
	return domain.ModeVideo
}

// Notifier receives download events worth surfacing to the user
type Notifier interface {
	NotifyDownloadFailed(url string, err error)
	NotifyRunFinished(downloaded, failed int)
}

// Orchestrator downloads single URLs and playlists
type Orchestrator struct {
	extractor   domain.Extractor
	transcoder  domain.Transcoder
	resolver    domain.PlaylistResolver
	repo        domain.DownloadRepository
	notifier    Notifier
	audioFormat string
	progress    io.Writer
	logger      *zap.Logger
}

// NewOrchestrator creates a new orchestrator. resolver, repo and notifier may be nil.
func NewOrchestrator(
	extractor domain.Extractor,
	transcoder domain.Transcoder,
	resolver domain.PlaylistResolver,
	repo domain.DownloadRepository,
	notifier Notifier,
	config *domain.DownloadConfig,
	logger *zap.Logger,
) *Orchestrator {
	audioFormat := "mp3"
	if config != nil && config.AudioFormat != "" {
		audioFormat = config.AudioFormat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		extractor:   extractor,
		transcoder:  transcoder,
		resolver:    resolver,
		repo:        repo,
		notifier:    notifier,
		audioFormat: audioFormat,
		logger:      logger,
	}
}

// SetProgressOutput sets where playlist progress is rendered
func (o *Orchestrator) SetProgressOutput(w io.Writer) {
	o.progress = w
}

// Handle downloads url as a single item, or as a playlist when req.Playlist is set
func (o *Orchestrator) Handle(ctx context.Context, url string, req Request) domain.BatchResult {
	if req.Playlist {
		return o.DownloadPlaylist(ctx, url, req)
	}
	var result domain.BatchResult
	result.Add(o.Download(ctx, url, req))
	return result
}

// Download fetches one URL. Errors never escape: they are logged and carried in the outcome.
func (o *Orchestrator) Download(ctx context.Context, url string, req Request) domain.Outcome {
	return o.download(ctx, url, req, false)
}

// DownloadPlaylist expands the playlist in url and downloads its entries in order.
// When the playlist cannot be listed, yt-dlp is handed the URL in playlist mode instead.
func (o *Orchestrator) DownloadPlaylist(ctx context.Context, url string, req Request) domain.BatchResult {
	var result domain.BatchResult

	entries, err := o.expand(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			result.Add(domain.Outcome{URL: url, Err: ctx.Err()})
			return result
		}
		o.logger.Warn("Playlist expansion failed, letting yt-dlp expand it",
			zap.String("url", url),
			zap.Error(err))
		result.Add(o.download(ctx, url, req, true))
		return result
	}

	o.logger.Info("Expanded playlist",
		zap.String("url", url),
		zap.Int("items", len(entries)))

	bar := newProgressBar(o.progress, len(entries), "Playlist")
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		result.Add(o.Download(ctx, entry.URL(), req))
		bar.Add(1)
	}
	bar.Finish()

	return result
}

func (o *Orchestrator) expand(ctx context.Context, url string) ([]domain.PlaylistEntry, error) {
	if o.resolver == nil {
		return nil, errors.New("no playlist resolver configured")
	}
	playlistID := domain.PlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("no playlist ID in %s", url)
	}
	entries, err := o.resolver.Resolve(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("playlist %s has no entries", playlistID)
	}
	return entries, nil
}

func (o *Orchestrator) download(ctx context.Context, url string, req Request, playlist bool) domain.Outcome {
	record := o.startRecord(url, req)

	outcome := domain.Outcome{URL: url}
	outcome.Title, outcome.Files, outcome.Err = o.fetch(ctx, url, req, playlist)
	if outcome.Err == nil && len(outcome.Files) == 0 {
		outcome.Err = domain.ErrNoMedia
	}

	o.finishRecord(record, outcome)

	switch {
	case outcome.Err == nil:
		o.logger.Info("Downloaded: "+url,
			zap.String("url", url),
			zap.String("title", outcome.Title),
			zap.Strings("files", outcome.Files))
	case errors.Is(outcome.Err, context.Canceled):
		o.logger.Warn("Download interrupted: "+url, zap.String("url", url))
	default:
		o.logger.Error(fmt.Sprintf("Error downloading %s: %v", url, outcome.Err),
			zap.String("url", url),
			zap.Error(outcome.Err))
		if o.notifier != nil {
			o.notifier.NotifyDownloadFailed(url, outcome.Err)
		}
	}

	return outcome
}

// fetch runs the extractor and, in audio-only mode, the transcoder.
// Files delivered before a failure are still returned.
func (o *Orchestrator) fetch(ctx context.Context, url string, req Request, playlist bool) (string, []string, error) {
	media, err := o.extractor.Extract(ctx, domain.MediaRequest{
		URL:       url,
		AudioOnly: req.AudioOnly,
		Quality:   req.Quality,
		OutputDir: req.OutputDir,
		Playlist:  playlist,
	})
	if err != nil {
		return "", nil, err
	}

	var title string
	if len(media) > 0 {
		title = media[0].Title
	}

	files := make([]string, 0, len(media))
	for _, m := range media {
		if !req.AudioOnly {
			files = append(files, m.FilePath)
			continue
		}
		out, err := o.toAudio(ctx, m.FilePath)
		if err != nil {
			return title, files, err
		}
		files = append(files, out)
	}

	return title, files, nil
}

// toAudio transcodes the intermediate file into the configured audio format next to it,
// then removes the intermediate file. An existing target is kept as is.
func (o *Orchestrator) toAudio(ctx context.Context, intermediate string) (string, error) {
	target := strings.TrimSuffix(intermediate, filepath.Ext(intermediate)) + "." + o.audioFormat
	if target == intermediate {
		return target, nil
	}

	if _, err := os.Stat(target); err == nil {
		o.logger.Info("Audio file already exists, skipping transcode", zap.String("file", target))
	} else if err := o.transcoder.Transcode(ctx, intermediate, target); err != nil {
		return "", err
	}

	if err := os.Remove(intermediate); err != nil && !errors.Is(err, os.ErrNotExist) {
		o.logger.Warn("Failed to remove intermediate file",
			zap.String("file", intermediate),
			zap.Error(err))
	}

	return target, nil
}

func (o *Orchestrator) startRecord(url string, req Request) *domain.Download {
	if o.repo == nil {
		return nil
	}
	record := domain.NewDownload(url, req.mode(), req.Quality)
	if err := o.repo.Create(record); err != nil {
		o.logger.Warn("Failed to record download", zap.String("url", url), zap.Error(err))
		return nil
	}
	return record
}

func (o *Orchestrator) finishRecord(record *domain.Download, outcome domain.Outcome) {
	if record == nil {
		return
	}
	if outcome.Err != nil {
		record.MarkFailed(outcome.Err)
	} else {
		record.MarkCompleted(outcome.Title, outcome.Files[0])
	}
	if err := o.repo.Update(record); err != nil {
		o.logger.Warn("Failed to update download record",
			zap.String("id", record.ID),
			zap.Error(err))
	}
}
