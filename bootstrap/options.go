package bootstrap

import (
	"os"
	"syscall"
	"time"

	"github.com/kbukum/companion/logger"
)

const defaultGracefulTimeout = 15 * time.Second

// lifecycle holds the non-generic knobs an Option can set on App.
type lifecycle struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	signals         []os.Signal
}

// Option configures the App during creation.
type Option func(*lifecycle)

func newLifecycle(opts []Option) lifecycle {
	lc := lifecycle{
		gracefulTimeout: defaultGracefulTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(&lc)
	}
	return lc
}

// WithLogger replaces the logger built from the Logging config section.
func WithLogger(l *logger.Logger) Option {
	return func(lc *lifecycle) { lc.logger = l }
}

// WithGracefulTimeout bounds how long OnStop hooks and component shutdown
// may take. Non-positive values keep the default.
func WithGracefulTimeout(d time.Duration) Option {
	return func(lc *lifecycle) {
		if d > 0 {
			lc.gracefulTimeout = d
		}
	}
}

// WithShutdownSignals replaces SIGINT/SIGTERM as the signals that end Run
// and cancel RunTask.
func WithShutdownSignals(sigs ...os.Signal) Option {
	return func(lc *lifecycle) {
		if len(sigs) > 0 {
			lc.signals = sigs
		}
	}
}
