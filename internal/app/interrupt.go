package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultStopGrace is how long an interrupted run may take to unwind before the process exits
const DefaultStopGrace = 5 * time.Second

// InterruptHandler turns a user interrupt into a clean stop of the current run
type InterruptHandler struct {
	cancel  context.CancelFunc
	out     io.Writer
	logger  *zap.Logger
	exit    func(code int)
	grace   time.Duration
	signals chan os.Signal
	done    chan struct{}
	once    sync.Once
	release sync.Once
	mu      sync.Mutex
}

// NewInterruptHandler creates a handler that cancels the run through cancel.
// exit defaults to os.Exit.
func NewInterruptHandler(cancel context.CancelFunc, out io.Writer, logger *zap.Logger, exit func(int)) *InterruptHandler {
	if exit == nil {
		exit = os.Exit
	}
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterruptHandler{
		cancel:  cancel,
		out:     out,
		logger:  logger,
		exit:    exit,
		grace:   DefaultStopGrace,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// SetLogger replaces the logger used for the stop notice. The handler can listen
// before the application logger exists.
func (h *InterruptHandler) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	h.mu.Lock()
	h.logger = logger
	h.mu.Unlock()
}

func (h *InterruptHandler) currentLogger() *zap.Logger {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.logger
}

// Listen registers for os.Interrupt until Release is called
func (h *InterruptHandler) Listen() {
	signal.Notify(h.signals, os.Interrupt)
	go h.wait()
}

func (h *InterruptHandler) wait() {
	select {
	case <-h.signals:
	case <-h.done:
		return
	}

	// In-flight subprocesses are killed through the context; give the run a moment
	// to unwind so its history record is written.
	h.cancel()
	select {
	case <-h.done:
	case <-time.After(h.grace):
	}
	h.Stop()
}

// Stop prints the stop notice, flushes the log and exits with code 0. Only the first call acts.
func (h *InterruptHandler) Stop() {
	h.once.Do(func() {
		h.cancel()
		fmt.Fprint(h.out, "\nProgram stopped successfully.\n")
		logger := h.currentLogger()
		logger.Info("Program stopped by user.")
		_ = logger.Sync()
		h.exit(0)
	})
}

// Release stops listening. The run is over once it returns.
func (h *InterruptHandler) Release() {
	h.release.Do(func() {
		signal.Stop(h.signals)
		close(h.done)
	})
}
