package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// maxStderrInError bounds how much ffmpeg output is carried in a returned error
const maxStderrInError = 512

// FFmpegTranscoder implements domain.Transcoder with the ffmpeg binary
type FFmpegTranscoder struct {
	binary     string
	sampleRate int
	logger     *zap.Logger
}

// NewFFmpegTranscoder creates a transcoder. An empty binary means "ffmpeg".
// Bare names are looked up in the tool cache before PATH.
func NewFFmpegTranscoder(binary string, sampleRate int, logger *zap.Logger) *FFmpegTranscoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpegTranscoder{
		binary:     binary,
		sampleRate: sampleRate,
		logger:     logger,
	}
}

// Available checks if the ffmpeg binary can be found
func (t *FFmpegTranscoder) Available() bool {
	_, err := exec.LookPath(t.executable())
	return err == nil
}

// BuildArgs returns the ffmpeg arguments converting inputPath to outputPath at the
// highest VBR quality. Existing outputs are never overwritten.
func (t *FFmpegTranscoder) BuildArgs(inputPath, outputPath string) []string {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-n",
		"-i", inputPath,
		"-q:a", "0",
		"-map", "a",
	}
	if t.sampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(t.sampleRate))
	}
	return append(args, outputPath)
}

// Transcode runs ffmpeg and waits for it. A non-zero exit is returned as an error.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	args := t.BuildArgs(inputPath, outputPath)
	binary := t.executable()
	t.logger.Debug("Running transcoder", zap.String("cmd", QuoteCommand(binary, args...)))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg interrupted: %w", ctx.Err())
		}
		if msg := tail(stderr.String(), maxStderrInError); msg != "" {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

func (t *FFmpegTranscoder) executable() string {
	return ResolveTool(t.binary)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
