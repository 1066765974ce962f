package infrastructure

import (
	"context"
	"fmt"
	"time"

	playlist "github.com/ytget/ytdlp/v2"
	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/domain"
)

// DefaultResolveTimeout bounds a single playlist listing
const DefaultResolveTimeout = 60 * time.Second

// PlaylistItemsFunc lists every item of a playlist; limit 0 means no limit
type PlaylistItemsFunc func(ctx context.Context, playlistID string, limit int) ([]domain.PlaylistEntry, error)

// YouTubePlaylistResolver implements domain.PlaylistResolver with the ytdlp library
type YouTubePlaylistResolver struct {
	timeout time.Duration
	list    PlaylistItemsFunc
	logger  *zap.Logger
}

// NewYouTubePlaylistResolver creates a resolver backed by the YouTube web client
func NewYouTubePlaylistResolver(logger *zap.Logger) *YouTubePlaylistResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YouTubePlaylistResolver{
		timeout: DefaultResolveTimeout,
		list:    listPlaylistItems,
		logger:  logger,
	}
}

// SetTimeout sets the timeout for resolve operations
func (r *YouTubePlaylistResolver) SetTimeout(timeout time.Duration) {
	r.timeout = timeout
}

// Timeout returns the bound applied to each Resolve call
func (r *YouTubePlaylistResolver) Timeout() time.Duration {
	return r.timeout
}

// Resolve returns the entries of playlistID in playlist order
func (r *YouTubePlaylistResolver) Resolve(ctx context.Context, playlistID string) ([]domain.PlaylistEntry, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("empty playlist ID")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	entries, err := r.list(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	resolved := make([]domain.PlaylistEntry, 0, len(entries))
	for _, e := range entries {
		if e.VideoID == "" {
			continue
		}
		e.Index = len(resolved) + 1
		resolved = append(resolved, e)
	}

	r.logger.Debug("Resolved playlist",
		zap.String("playlist_id", playlistID),
		zap.Int("items", len(resolved)))

	return resolved, nil
}

func listPlaylistItems(ctx context.Context, playlistID string, limit int) ([]domain.PlaylistEntry, error) {
	items, err := playlist.New().GetPlaylistItemsAll(ctx, playlistID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.PlaylistEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, domain.PlaylistEntry{
			VideoID: it.VideoID,
			Title:   it.Title,
		})
	}
	return entries, nil
}
