package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/domain"
)

// Runner executes one invocation: prepare the output directory, download, report
type Runner struct {
	orchestrator *Orchestrator
	batch        *BatchProcessor
	notifier     Notifier
	out          io.Writer
	logger       *zap.Logger
}

// NewRunner creates a new runner. notifier may be nil.
func NewRunner(orchestrator *Orchestrator, batch *BatchProcessor, notifier Notifier, out io.Writer, logger *zap.Logger) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		orchestrator: orchestrator,
		batch:        batch,
		notifier:     notifier,
		out:          out,
		logger:       logger,
	}
}

// Run downloads the URL or the batch file named by opts.
// The report is printed unless the run was interrupted or never started.
func (r *Runner) Run(ctx context.Context, opts domain.Options) (domain.BatchResult, error) {
	var result domain.BatchResult

	if err := opts.Validate(); err != nil {
		return result, err
	}

	dir, err := PrepareOutputDir(opts.OutputDir, r.logger)
	if err != nil {
		return result, err
	}

	req := Request{
		AudioOnly: opts.AudioOnly,
		Playlist:  opts.Playlist,
		Quality:   opts.Quality,
		OutputDir: dir,
	}

	r.logger.Info("Starting run",
		zap.String("mode", string(opts.Mode())),
		zap.Bool("playlist", opts.Playlist),
		zap.String("quality", opts.Quality),
		zap.String("output_dir", dir))

	var runErr error
	if opts.URL != "" {
		result = r.orchestrator.Handle(ctx, opts.URL, req)
	} else {
		result, runErr = r.batch.Process(ctx, opts.FilePath, req)
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	r.Report(result)
	return result, runErr
}

// Report prints and logs the success total of a run
func (r *Runner) Report(result domain.BatchResult) {
	downloaded := result.Downloaded()
	fmt.Fprintf(r.out, "\n[+] Downloaded %d items\n", downloaded)
	r.logger.Info(fmt.Sprintf("Downloaded %d items.", downloaded),
		zap.Int("downloaded", downloaded),
		zap.Int("attempted", result.Attempted()),
		zap.Int("failed", len(result.Failed())))

	if r.notifier != nil {
		r.notifier.NotifyRunFinished(downloaded, len(result.Failed()))
	}
}

// IsInterrupted reports whether err ended a run because of cancellation
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
