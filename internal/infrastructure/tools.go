package infrastructure

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

// InstallTools downloads yt-dlp, ffmpeg and ffprobe into the go-ytdlp cache when they
// are not already available.
func InstallTools(ctx context.Context, logger *zap.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool installation failed: %v", r)
		}
	}()

	logger.Info("Installing yt-dlp")
	ytdlp.MustInstall(ctx, nil)

	logger.Info("Installing ffmpeg and ffprobe")
	ytdlp.MustInstallFFmpeg(ctx, nil)
	ytdlp.MustInstallFFprobe(ctx, nil)

	if dir, err := ytdlp.GetCacheDir(); err == nil {
		logger.Info("Tools installed successfully", zap.String("dir", dir))
	}
	return nil
}

// ResolveTool finds a bare executable name in the go-ytdlp cache first (where
// InstallTools puts it), then on PATH. Paths and unresolvable names are returned as is.
func ResolveTool(name string) string {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return name
	}

	if dir, err := ytdlp.GetCacheDir(); err == nil {
		for _, candidate := range toolNames(name) {
			path := filepath.Join(dir, candidate)
			if info, err := os.Stat(path); err == nil && !info.IsDir() && isExecutable(info) {
				return path
			}
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}

func toolNames(name string) []string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(name, ".exe") {
		return []string{name + ".exe", name}
	}
	return []string{name}
}

func isExecutable(info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
