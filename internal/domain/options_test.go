package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"url only", Options{URL: "https://www.youtube.com/watch?v=abc"}, false},
		{"file only", Options{FilePath: "links.txt"}, false},
		{"neither", Options{}, true},
		{"both", Options{URL: "https://www.youtube.com/watch?v=abc", FilePath: "links.txt"}, true},
		{"blank url counts as given", Options{URL: "   "}, false},
		{"blank url and a file", Options{URL: " ", FilePath: "links.txt"}, true},
		{"playlist flag does not count as input", Options{Playlist: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUsage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptions_Mode(t *testing.T) {
	assert.Equal(t, ModeAudio, Options{AudioOnly: true}.Mode())
	assert.Equal(t, ModeVideo, Options{}.Mode())
}

func TestFormatSelector(t *testing.T) {
	assert.Equal(t, "bestaudio/best", FormatSelector(true, "1080"))
	assert.Equal(t, "bestvideo[height<=720]+bestaudio/best", FormatSelector(false, "720"))
	// Malformed quality is passed through untouched.
	assert.Equal(t, "bestvideo[height<=hd]+bestaudio/best", FormatSelector(false, "hd"))
}

func TestIsCandidateURL(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://music.youtube.com/watch?v=abc", true},
		{"youtube-but-not-a-url", true},
		{"https://youtu.be/abc", false},
		{"https://vimeo.com/123", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCandidateURL(tt.line))
		})
	}
}
