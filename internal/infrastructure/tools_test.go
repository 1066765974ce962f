package infrastructure

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toolEnv isolates the go-ytdlp cache and PATH. It returns both directories.
func toolEnv(t *testing.T) (cacheDir, pathDir string) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("cache location is only redirected through XDG_CACHE_HOME on linux")
	}
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	cacheDir = filepath.Join(base, "cache", "go-ytdlp")
	pathDir = filepath.Join(base, "bin")
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	require.NoError(t, os.MkdirAll(pathDir, 0755))
	t.Setenv("PATH", pathDir)
	return cacheDir, pathDir
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestResolveTool_PrefersCache(t *testing.T) {
	cacheDir, pathDir := toolEnv(t)
	cached := writeScript(t, cacheDir, "ffmpeg", "exit 0")
	writeScript(t, pathDir, "ffmpeg", "exit 0")

	assert.Equal(t, cached, ResolveTool("ffmpeg"))
}

func TestResolveTool_FallsBackToPath(t *testing.T) {
	_, pathDir := toolEnv(t)
	onPath := writeScript(t, pathDir, "ffmpeg", "exit 0")

	assert.Equal(t, onPath, ResolveTool("ffmpeg"))
}

func TestResolveTool_IgnoresNonExecutableCacheEntry(t *testing.T) {
	cacheDir, pathDir := toolEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "ffmpeg"), []byte("data"), 0644))
	onPath := writeScript(t, pathDir, "ffmpeg", "exit 0")

	assert.Equal(t, onPath, ResolveTool("ffmpeg"))
}

func TestResolveTool_PassThrough(t *testing.T) {
	toolEnv(t)

	assert.Equal(t, "/opt/bin/ffmpeg", ResolveTool("/opt/bin/ffmpeg"))
	assert.Equal(t, "missing-tool", ResolveTool("missing-tool"))
	assert.Equal(t, "", ResolveTool(""))
}
