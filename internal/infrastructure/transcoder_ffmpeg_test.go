package infrastructure

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/downtube-go/internal/domain"
)

func TestFFmpegTranscoder_BuildArgs(t *testing.T) {
	transcoder := NewFFmpegTranscoder("", 44100, nil)

	args := transcoder.BuildArgs("/tmp/out dir/My Song.wav", "/tmp/out dir/My Song.mp3")

	assert.Equal(t, []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-n",
		"-i", "/tmp/out dir/My Song.wav",
		"-q:a", "0",
		"-map", "a",
		"-ar", "44100",
		"/tmp/out dir/My Song.mp3",
	}, args)
}

func TestFFmpegTranscoder_BuildArgs_NoSampleRate(t *testing.T) {
	transcoder := NewFFmpegTranscoder("ffmpeg", 0, nil)

	args := transcoder.BuildArgs("in.wav", "out.mp3")

	assert.NotContains(t, args, "-ar")
	assert.Equal(t, "out.mp3", args[len(args)-1])
}

func TestFFmpegTranscoder_DefaultBinary(t *testing.T) {
	transcoder := NewFFmpegTranscoder("", 0, nil)
	assert.Equal(t, "ffmpeg", transcoder.binary)
}

func TestFFmpegTranscoder_MissingBinary(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "no-such-ffmpeg")
	transcoder := NewFFmpegTranscoder(binary, 0, nil)

	assert.False(t, transcoder.Available())

	err := transcoder.Transcode(context.Background(), "in.wav", "out.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg failed")
}

func TestFFmpegTranscoder_CancelledContext(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "no-such-ffmpeg")
	transcoder := NewFFmpegTranscoder(binary, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := transcoder.Transcode(ctx, "in.wav", "out.mp3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short\n", 10))
	long := strings.Repeat("a", 20) + "END"
	assert.Equal(t, "...aaEND", tail(long, 5))
}

func TestFFmpegTranscoder_UsesInstalledCopy(t *testing.T) {
	cacheDir, _ := toolEnv(t)
	// writes its last argument, like ffmpeg writing the output file
	writeScript(t, cacheDir, "ffmpeg", `for a; do last="$a"; done; echo mp3 > "$last"`)

	config := domain.DefaultConfig().Download
	transcoder := NewFFmpegTranscoder(config.FFmpegBinary, config.SampleRate, nil)
	require.True(t, transcoder.Available())

	out := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, transcoder.Transcode(context.Background(), "song.wav", out))
	assert.FileExists(t, out)
}
