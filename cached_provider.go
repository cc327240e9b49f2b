package jamulsoe

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/singleflight"

	"github.com/mrchypark/jamulsoe/internal/worker"
	"github.com/mrchypark/jamulsoe/pkg/lock"
)

// FetchFunc fetches metadata from a source that is too slow to consult on
// every log record, such as a network service or a database.
type FetchFunc func(ctx context.Context) (Metadata, error)

// CachedProvider keeps a metadata snapshot and refreshes it in the background
// at a fixed interval. The provider returned by Provider reads the snapshot
// under a reader lock, so evaluating it on the logging path never blocks on
// the fetch.
//
// A failed refresh keeps the previous snapshot and is logged at warn level;
// the snapshot only ever moves forward to successfully fetched metadata.
type CachedProvider struct {
	fetch  FetchFunc
	logger log.Logger
	cfg    Config

	snapLock *lock.RWLock
	snapshot Metadata

	workers *worker.Manager
	group   singleflight.Group

	stop      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// NewCachedProvider performs one synchronous fetch so the provider never
// serves empty metadata, then starts the background refresh loop.
func NewCachedProvider(fetch FetchFunc, opts ...Option) (*CachedProvider, error) {
	if fetch == nil {
		return nil, &ConfigError{"fetch function cannot be nil"}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	p := &CachedProvider{
		fetch:    fetch,
		logger:   cfg.Logger,
		cfg:      cfg,
		snapLock: lock.NewRWLock(),
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.WorkerJobTimeout)
	defer cancel()
	if err := p.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("jamulsoe: initial metadata fetch: %w", err)
	}

	workers, err := worker.NewManager(cfg.WorkerStrategy, cfg.Logger, cfg.WorkerPoolSize, cfg.WorkerQueueSize, cfg.WorkerJobTimeout)
	if err != nil {
		return nil, err
	}
	p.workers = workers

	go p.refreshLoop()

	return p, nil
}

// Provider returns a Provider reading the cached snapshot. The returned map
// is a copy, so log sinks cannot mutate the snapshot.
func (p *CachedProvider) Provider() Provider {
	return func() Metadata {
		return lock.ReadLocked(p.snapLock, func() Metadata {
			return maps.Clone(p.snapshot)
		})
	}
}

// Refresh fetches metadata now and replaces the snapshot on success.
// Concurrent calls are coalesced into a single fetch.
func (p *CachedProvider) Refresh(ctx context.Context) error {
	_, err, _ := p.group.Do("refresh", func() (interface{}, error) {
		md, err := p.fetch(ctx)
		if err != nil {
			return nil, err
		}
		p.snapLock.WithLock(func() {
			p.snapshot = md
		})
		return nil, nil
	})
	return err
}

// refreshLoop submits a refresh job on every interval tick until Close.
func (p *CachedProvider) refreshLoop() {
	defer close(p.loopDone)

	ticker := time.NewTicker(p.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.workers.Submit(func(ctx context.Context) {
				if err := p.Refresh(ctx); err != nil {
					level.Warn(p.logger).Log("msg", "metadata refresh failed, keeping previous snapshot", "err", err)
				}
			})
		case <-p.stop:
			return
		}
	}
}

// Close stops the refresh loop and shuts down the worker manager, waiting up
// to the configured shutdown timeout for an in-flight refresh. It is safe to
// call more than once.
func (p *CachedProvider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.stop)
		<-p.loopDone
		err = p.workers.Shutdown(p.cfg.ShutdownTimeout)
	})
	return err
}
