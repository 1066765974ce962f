package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTee_MirrorsAboveLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "downloader.log")
	var console bytes.Buffer

	log, err := NewTee(Config{Level: "info", Format: "json", OutputPath: logPath}, &console, "warn")
	require.NoError(t, err)
	log.Info("Downloaded: https://www.youtube.com/watch?v=abc")
	log.Error("Error downloading https://www.youtube.com/watch?v=bad: boom")
	require.NoError(t, log.Sync())

	entries, err := NewLogReader(logPath).ReadLogs(0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.NotContains(t, console.String(), "Downloaded:")
	assert.Contains(t, console.String(), "Error downloading https://www.youtube.com/watch?v=bad: boom")
}

func TestNewTee_NoConsole(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "downloader.log")

	log, err := NewTee(Config{Level: "info", OutputPath: logPath}, nil, "debug")
	require.NoError(t, err)
	log.Info("kept")
	require.NoError(t, log.Sync())

	entries, err := NewLogReader(logPath).ReadLogs(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
