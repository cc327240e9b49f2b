package worker

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// AllStrategy spawns a new goroutine for every submitted job. Suitable when
// jobs are rare and must never queue behind each other.
type AllStrategy struct {
	logger  log.Logger
	timeout time.Duration
	jobs    chan Job
	wg      sync.WaitGroup
}

var _ Strategy = (*AllStrategy)(nil)

func NewAllStrategy(logger log.Logger, timeout time.Duration) *AllStrategy {
	s := &AllStrategy{
		logger:  logger,
		timeout: timeout,
		jobs:    make(chan Job),
	}
	s.start()
	return s
}

func (s *AllStrategy) start() {
	go func() {
		for job := range s.jobs {
			s.wg.Add(1)
			go func(j Job) {
				defer s.wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
				defer cancel()
				j(ctx)
			}(job)
		}
	}()
}

// Submit never drops a job; it blocks until the dispatcher accepts it.
func (s *AllStrategy) Submit(job Job) bool {
	s.jobs <- job
	return true
}

// Shutdown waits for all running jobs to finish, up to timeout.
func (s *AllStrategy) Shutdown(timeout time.Duration) error {
	close(s.jobs)
	doneCh := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
		return nil
	case <-time.After(timeout):
		level.Error(s.logger).Log("msg", "AllStrategy shutdown timed out", "timeout", timeout)
		return ErrShutdownTimeout
	}
}
