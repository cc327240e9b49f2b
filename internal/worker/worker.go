// Package worker runs background jobs (metadata refreshes) on a configurable
// execution strategy.
package worker

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Job is a unit of work executed asynchronously by a worker. The function
// must capture everything it needs as a closure and honor ctx cancellation.
type Job func(ctx context.Context)

// Strategy decides how submitted jobs are executed.
type Strategy interface {
	// Submit enqueues a job. It returns false if the job was dropped.
	Submit(job Job) bool
	// Shutdown waits for in-flight jobs up to timeout.
	Shutdown(timeout time.Duration) error
}

// Manager owns a strategy and forwards jobs to it.
type Manager struct {
	strategy Strategy
	logger   log.Logger
}

// NewManager creates a worker manager with the given strategy.
// jobTimeout bounds the execution time of each job.
func NewManager(strategyType string, logger log.Logger, poolSize int, queueSize int, jobTimeout time.Duration) (*Manager, error) {
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Second
	}

	var strategy Strategy
	switch strategyType {
	case "all":
		strategy = NewAllStrategy(logger, jobTimeout)
	case "pool":
		strategy = NewPoolStrategy(logger, poolSize, queueSize, jobTimeout)
	default:
		level.Info(logger).Log("msg", "unknown strategy, defaulting to 'pool'", "strategy", strategyType)
		strategy = NewPoolStrategy(logger, poolSize, queueSize, jobTimeout)
	}

	return &Manager{
		strategy: strategy,
		logger:   logger,
	}, nil
}

// Submit forwards a job to the configured strategy.
func (m *Manager) Submit(job Job) bool {
	return m.strategy.Submit(job)
}

// Shutdown stops the manager, waiting up to timeout for in-flight jobs.
func (m *Manager) Shutdown(timeout time.Duration) error {
	level.Debug(m.logger).Log("msg", "shutting down worker manager")
	if err := m.strategy.Shutdown(timeout); err != nil {
		level.Error(m.logger).Log("msg", "error during shutdown", "err", err)
		return err
	}
	level.Debug(m.logger).Log("msg", "worker manager shutdown complete")
	return nil
}
