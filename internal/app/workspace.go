package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/domain"
)

// PrepareOutputDir creates dir if needed and returns its absolute path.
// Every file of the run is written below the returned path; the working directory is left alone.
func PrepareOutputDir(dir string, logger *zap.Logger) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			logger.Error(fmt.Sprintf("Couldn't create '%s' folder. Check write permissions.", dir),
				zap.String("dir", dir))
			return "", fmt.Errorf("%w: %s", domain.ErrOutputDirPermission, dir)
		}
		logger.Error("Failed to create output directory",
			zap.String("dir", dir),
			zap.Error(err))
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	return abs, nil
}
