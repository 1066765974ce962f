package domain

import "context"

// MediaRequest describes one call into the extraction collaborator
type MediaRequest struct {
	URL       string
	AudioOnly bool
	Quality   string
	OutputDir string
	// Playlist lets the extractor expand the URL into every item it lists.
	Playlist bool
}

// Media is a file delivered by the extractor
type Media struct {
	Title    string
	FilePath string
}

// Extractor resolves a URL into downloaded media files.
// In audio-only mode FilePath points at the intermediate audio container.
type Extractor interface {
	Extract(ctx context.Context, req MediaRequest) ([]Media, error)
}

// Transcoder converts an audio file into a compressed sibling file
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
}

// PlaylistEntry is a single video listed by a playlist
type PlaylistEntry struct {
	VideoID string
	Title   string
	Index   int
}

// URL returns the watch URL of the entry
func (e PlaylistEntry) URL() string {
	return WatchURL(e.VideoID)
}

// PlaylistResolver expands a playlist ID into its entries
type PlaylistResolver interface {
	Resolve(ctx context.Context, playlistID string) ([]PlaylistEntry, error)
}
