package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrShutdownTimeout is returned when a shutdown exceeds its deadline.
var ErrShutdownTimeout = errors.New("worker: shutdown timed out")

// PoolStrategy executes jobs on a fixed pool of workers fed by a bounded
// queue. Jobs submitted while the queue is full are dropped.
type PoolStrategy struct {
	logger       log.Logger
	timeout      time.Duration
	poolSize     int
	jobs         chan Job
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

var _ Strategy = (*PoolStrategy)(nil)

func NewPoolStrategy(logger log.Logger, poolSize int, queueSize int, timeout time.Duration) *PoolStrategy {
	if poolSize <= 0 {
		poolSize = 10
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	p := &PoolStrategy{
		logger:   logger,
		poolSize: poolSize,
		timeout:  timeout,
		jobs:     make(chan Job, queueSize),
	}
	p.start()
	return p
}

func (p *PoolStrategy) start() {
	p.wg.Add(p.poolSize)
	for i := 0; i < p.poolSize; i++ {
		go func(workerID int) {
			defer p.wg.Done()
			logger := log.With(p.logger, "worker_id", workerID)
			level.Debug(logger).Log("msg", "worker started")

			// Ranging over the channel drains the remaining queue after
			// Shutdown closes it, then exits cleanly.
			for job := range p.jobs {
				ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
				job(ctx)
				cancel()
			}
			level.Debug(logger).Log("msg", "worker stopped")
		}(i)
	}
}

// Submit drops the job when the queue is full rather than blocking the
// caller.
func (p *PoolStrategy) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		level.Warn(p.logger).Log("msg", "worker queue is full, dropping job")
		return false
	}
}

// Shutdown closes the queue and waits for workers to drain it, up to timeout.
func (p *PoolStrategy) Shutdown(timeout time.Duration) error {
	p.shutdownOnce.Do(func() {
		close(p.jobs)
	})

	doneCh := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
		return nil
	case <-time.After(timeout):
		level.Error(p.logger).Log("msg", "shutdown timed out", "timeout", timeout)
		return ErrShutdownTimeout
	}
}
