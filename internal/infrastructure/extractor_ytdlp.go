package infrastructure

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/domain"
)

// outputTemplate names files after the source title
const outputTemplate = "%(title)s.%(ext)s"

// YTDLPExtractor implements domain.Extractor by driving the yt-dlp binary
type YTDLPExtractor struct {
	config *domain.DownloadConfig
	logger *zap.Logger
}

// NewYTDLPExtractor creates a new yt-dlp backed extractor
func NewYTDLPExtractor(config *domain.DownloadConfig, logger *zap.Logger) *YTDLPExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPExtractor{
		config: config,
		logger: logger,
	}
}

// extractPlan is the set of yt-dlp options derived from a request
type extractPlan struct {
	Format       string
	OutputDir    string
	AudioFormat  string // set only in audio-only mode
	Playlist     bool
	NoOverwrites bool
	CookieFile   string
}

func (e *YTDLPExtractor) plan(req domain.MediaRequest) extractPlan {
	p := extractPlan{
		Format:       domain.FormatSelector(req.AudioOnly, req.Quality),
		OutputDir:    req.OutputDir,
		Playlist:     req.Playlist,
		NoOverwrites: e.config.NoOverwrites,
	}
	if req.AudioOnly {
		p.AudioFormat = e.intermediateFormat()
	}
	if e.config.CookieFile != "" && fileExists(e.config.CookieFile) {
		p.CookieFile = e.config.CookieFile
	}
	return p
}

func (e *YTDLPExtractor) intermediateFormat() string {
	if e.config.IntermediateFormat == "" {
		return "wav"
	}
	return e.config.IntermediateFormat
}

func (e *YTDLPExtractor) command(p extractPlan) *ytdlp.Command {
	dl := ytdlp.New().
		Format(p.Format).
		Output(outputTemplate).
		PrintJSON().
		NoProgress()

	if e.config.YTDLPBinary != "" {
		dl = dl.SetExecutable(ResolveTool(e.config.YTDLPBinary))
	}
	if p.OutputDir != "" {
		dl = dl.Paths(p.OutputDir)
	}
	if p.NoOverwrites {
		dl = dl.NoOverwrites()
	}
	if p.AudioFormat != "" {
		dl = dl.ExtractAudio().AudioFormat(p.AudioFormat)
	}
	if p.Playlist {
		dl = dl.YesPlaylist()
	} else {
		dl = dl.NoPlaylist()
	}
	if p.CookieFile != "" {
		dl = dl.Cookies(p.CookieFile)
	}
	return dl
}

// Extract downloads req.URL and returns the files yt-dlp reported.
// Title and file name come from the same extraction, so they cannot disagree.
func (e *YTDLPExtractor) Extract(ctx context.Context, req domain.MediaRequest) ([]domain.Media, error) {
	p := e.plan(req)

	e.logger.Debug("Running yt-dlp",
		zap.String("url", req.URL),
		zap.String("format", p.Format),
		zap.String("output_dir", p.OutputDir),
		zap.Bool("playlist", p.Playlist))

	result, err := e.command(p).Run(ctx, req.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("yt-dlp interrupted: %w", ctx.Err())
		}
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	media := make([]domain.Media, 0, len(infos))
	for _, info := range infos {
		var title, filename string
		if info.Title != nil {
			title = *info.Title
		}
		if info.Filename != nil {
			filename = *info.Filename
		}
		if m, ok := toMedia(title, filename, p); ok {
			media = append(media, m)
		}
	}

	if len(media) == 0 {
		return nil, domain.ErrNoMedia
	}
	return media, nil
}

// toMedia resolves the on-disk path of a reported item. In audio mode yt-dlp reports the
// pre-extraction name, so the extension is swapped for the intermediate container.
func toMedia(title, filename string, p extractPlan) (domain.Media, bool) {
	switch {
	case filename != "" && p.AudioFormat != "":
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + "." + p.AudioFormat
	case filename == "" && title != "" && p.AudioFormat != "":
		filename = title + "." + p.AudioFormat
	case filename == "":
		// Without a reported name the video container is unknown.
		return domain.Media{}, false
	}

	if !filepath.IsAbs(filename) && p.OutputDir != "" {
		filename = filepath.Join(p.OutputDir, filename)
	}

	return domain.Media{Title: title, FilePath: filename}, true
}
