package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/domain"
)

// URLHandler downloads everything a single URL points at
type URLHandler interface {
	Handle(ctx context.Context, url string, req Request) domain.BatchResult
}

// BatchProcessor downloads every candidate URL listed in a text file
type BatchProcessor struct {
	handler  URLHandler
	progress io.Writer
	logger   *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(handler URLHandler, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		handler: handler,
		logger:  logger,
	}
}

// SetProgressOutput sets where batch progress is rendered
func (b *BatchProcessor) SetProgressOutput(w io.Writer) {
	b.progress = w
}

// Process downloads the URLs listed in path, one per line, in file order.
// Blank lines and lines not mentioning youtube are skipped. A failing URL does not stop
// the batch; a cancelled context does, before the next URL.
func (b *BatchProcessor) Process(ctx context.Context, path string, req Request) (domain.BatchResult, error) {
	var result domain.BatchResult

	urls, err := b.readCandidates(path)
	if err != nil {
		return result, err
	}

	b.logger.Info("Processing batch file",
		zap.String("path", path),
		zap.Int("urls", len(urls)))

	bar := newProgressBar(b.progress, len(urls), "Downloading")
	for _, url := range urls {
		if ctx.Err() != nil {
			break
		}
		for _, outcome := range b.handler.Handle(ctx, url, req).Outcomes {
			result.Add(outcome)
		}
		bar.Add(1)
	}
	bar.Finish()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (b *BatchProcessor) readCandidates(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, b.classify(path, err)
	}
	defer file.Close()

	// Lines have no length limit; the last one may lack a newline.
	var urls []string
	reader := bufio.NewReader(file)
	for {
		raw, err := reader.ReadString('\n')
		if line := strings.TrimSpace(raw); domain.IsCandidateURL(line) {
			urls = append(urls, line)
		}
		if errors.Is(err, io.EOF) {
			return urls, nil
		}
		if err != nil {
			return nil, b.classify(path, err)
		}
	}
}

func (b *BatchProcessor) classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		b.logger.Error("File not found: "+path, zap.String("path", path))
		return fmt.Errorf("%w: %s", domain.ErrInputNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		b.logger.Error("Permission denied: "+path, zap.String("path", path))
		return fmt.Errorf("%w: %s", domain.ErrInputPermission, path)
	default:
		b.logger.Error(fmt.Sprintf("Error reading file %s: %v", path, err),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
}
