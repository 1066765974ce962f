package domain

import (
	"fmt"
	"strings"
)

// Options holds the parsed command-line options for a download run
type Options struct {
	AudioOnly bool
	Playlist  bool
	URL       string
	FilePath  string
	OutputDir string
	Quality   string
}

// Validate checks that exactly one input source is set.
// Any non-empty value counts as set, even whitespace; the extractor rejects it later.
// Quality is not checked; it is handed to the extractor as is.
func (o Options) Validate() error {
	hasURL := o.URL != ""
	hasFile := o.FilePath != ""
	if hasURL == hasFile {
		return ErrUsage
	}
	return nil
}

// Mode returns the download mode implied by the options
func (o Options) Mode() DownloadMode {
	if o.AudioOnly {
		return ModeAudio
	}
	return ModeVideo
}

// FormatSelector returns the yt-dlp format expression for a download.
func FormatSelector(audioOnly bool, quality string) string {
	if audioOnly {
		return "bestaudio/best"
	}
	return fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best", quality)
}

// IsCandidateURL reports whether a batch line should be handed to the downloader.
// This is a coarse filter, not a validator.
func IsCandidateURL(line string) bool {
	return line != "" && strings.Contains(line, "youtube")
}
