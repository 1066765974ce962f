package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourusername/downtube-go/internal/domain"
)

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newBatchFixture(t *testing.T) (*BatchProcessor, *orchestratorFixture, *observer.ObservedLogs) {
	t.Helper()
	f := newOrchestratorFixture(t)
	core, logs := observer.New(zapcore.InfoLevel)
	return NewBatchProcessor(f.orchestrator, zap.New(core)), f, logs
}

func TestProcess_SkipsNonCandidates(t *testing.T) {
	batch, f, _ := newBatchFixture(t)
	path := writeBatchFile(t, "  https://www.youtube.com/watch?v=one  \n"+
		"\n"+
		"https://vimeo.com/12345\n"+
		"   \n"+
		"https://www.youtube.com/watch?v=two\n"+
		"# https://youtu.be/short\n")

	result, err := batch.Process(context.Background(), path, f.request(false))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=one",
		"https://www.youtube.com/watch?v=two",
	}, f.extractor.urls())
	assert.Equal(t, 2, result.Attempted())
	assert.Equal(t, 2, result.Downloaded())
}

func TestProcess_FailuresContinue(t *testing.T) {
	batch, f, _ := newBatchFixture(t)
	f.extractor.failures["https://www.youtube.com/watch?v=two"] = errors.New("Video unavailable")
	path := writeBatchFile(t, "https://www.youtube.com/watch?v=one\n"+
		"https://www.youtube.com/watch?v=two\n"+
		"https://www.youtube.com/watch?v=three\n")

	result, err := batch.Process(context.Background(), path, f.request(true))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Attempted())
	assert.Equal(t, 2, result.Downloaded())
	require.Len(t, result.Failed(), 1)
	assert.Equal(t, "https://www.youtube.com/watch?v=two", result.Failed()[0].URL)
}

func TestProcess_LongLineDoesNotStopBatch(t *testing.T) {
	batch, f, _ := newBatchFixture(t)
	path := writeBatchFile(t, "https://www.youtube.com/watch?v=one\n"+
		strings.Repeat("x", 2*1024*1024)+"\n"+
		"https://www.youtube.com/watch?v=two")

	result, err := batch.Process(context.Background(), path, f.request(false))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=one",
		"https://www.youtube.com/watch?v=two",
	}, f.extractor.urls())
	assert.Equal(t, 2, result.Downloaded())
}

func TestProcess_EmptyFile(t *testing.T) {
	batch, f, _ := newBatchFixture(t)
	path := writeBatchFile(t, "")

	result, err := batch.Process(context.Background(), path, f.request(false))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Downloaded())
	assert.Empty(t, f.extractor.requests)
}

func TestProcess_FileNotFound(t *testing.T) {
	batch, f, logs := newBatchFixture(t)
	path := filepath.Join(t.TempDir(), "missing.txt")

	result, err := batch.Process(context.Background(), path, f.request(false))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputNotFound)
	assert.Equal(t, 0, result.Downloaded())
	assert.Equal(t, 1, logs.FilterMessage("File not found: "+path).Len())
}

func TestProcess_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	batch, f, logs := newBatchFixture(t)
	path := writeBatchFile(t, "https://www.youtube.com/watch?v=one\n")
	require.NoError(t, os.Chmod(path, 0000))

	_, err := batch.Process(context.Background(), path, f.request(false))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputPermission)
	assert.Equal(t, 1, logs.FilterMessage("Permission denied: "+path).Len())
	assert.Empty(t, f.extractor.requests)
}

func TestProcess_DirectoryIsReadError(t *testing.T) {
	batch, f, logs := newBatchFixture(t)
	dir := t.TempDir()

	_, err := batch.Process(context.Background(), dir, f.request(false))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInputNotFound)
	assert.NotErrorIs(t, err, domain.ErrInputPermission)
	assert.Equal(t, 1, logs.FilterMessageSnippet("Error reading file "+dir).Len())
}

func TestProcess_StopsWhenCancelled(t *testing.T) {
	batch, f, _ := newBatchFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.extractor.onExtract = func(req domain.MediaRequest) {
		if req.URL == "https://www.youtube.com/watch?v=one" {
			cancel()
		}
	}
	path := writeBatchFile(t, "https://www.youtube.com/watch?v=one\n"+
		"https://www.youtube.com/watch?v=two\n")

	result, err := batch.Process(ctx, path, f.request(false))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Attempted())
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=one"}, f.extractor.urls())
}

func TestProcess_PlaylistLinesExpand(t *testing.T) {
	batch, f, _ := newBatchFixture(t)
	f.resolver.entries = []domain.PlaylistEntry{{VideoID: "a"}, {VideoID: "b"}}
	path := writeBatchFile(t, "https://www.youtube.com/playlist?list=PL1\n")

	req := f.request(false)
	req.Playlist = true
	result, err := batch.Process(context.Background(), path, req)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Downloaded())
}

func TestProcess_RendersProgress(t *testing.T) {
	batch, f, _ := newBatchFixture(t)
	var out bytes.Buffer
	batch.SetProgressOutput(&out)
	path := writeBatchFile(t, "https://www.youtube.com/watch?v=one\n")

	_, err := batch.Process(context.Background(), path, f.request(false))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Downloading")
	assert.Contains(t, out.String(), "0/1")
}
