package jamulsoe

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
)

// ConfigError represents an error that occurs during the configuration
// process.
type ConfigError struct {
	Message string
}

// Error returns the error message for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("jamulsoe: configuration error: %s", e.Message)
}

// Config holds the configurable settings for a CachedProvider.
// Option functions modify fields within this struct.
type Config struct {
	Logger log.Logger

	RefreshInterval time.Duration
	ShutdownTimeout time.Duration

	WorkerStrategy   string
	WorkerPoolSize   int
	WorkerQueueSize  int
	WorkerJobTimeout time.Duration
}

// Option is a function type that modifies the Config.
type Option func(cfg *Config) error

func defaultConfig() Config {
	return Config{
		Logger:           log.NewNopLogger(),
		RefreshInterval:  time.Minute,
		ShutdownTimeout:  5 * time.Second,
		WorkerStrategy:   "pool",
		WorkerPoolSize:   1,
		WorkerQueueSize:  1,
		WorkerJobTimeout: 30 * time.Second,
	}
}

// WithLogger sets the logger used for refresh diagnostics.
// If not set, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(cfg *Config) error {
		if logger == nil {
			return &ConfigError{"logger cannot be nil"}
		}
		cfg.Logger = logger
		return nil
	}
}

// WithRefreshInterval sets how often the cached metadata is refreshed in the
// background. If not set, one minute is used.
func WithRefreshInterval(interval time.Duration) Option {
	return func(cfg *Config) error {
		if interval <= 0 {
			return &ConfigError{"refresh interval must be positive"}
		}
		cfg.RefreshInterval = interval
		return nil
	}
}

// WithShutdownTimeout sets how long Close waits for an in-flight refresh.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(cfg *Config) error {
		if timeout <= 0 {
			return &ConfigError{"shutdown timeout must be positive"}
		}
		cfg.ShutdownTimeout = timeout
		return nil
	}
}

// WithWorker specifies the worker strategy and detailed settings for
// background refreshes. If not set, reasonable defaults ("pool", size 1) are
// used.
func WithWorker(strategyType string, poolSize int, queueSize int, jobTimeout time.Duration) Option {
	return func(cfg *Config) error {
		if strategyType == "" {
			return &ConfigError{"worker strategy type cannot be empty"}
		}
		if poolSize <= 0 {
			return &ConfigError{"worker pool size must be positive"}
		}
		if jobTimeout <= 0 {
			return &ConfigError{"worker job timeout must be positive"}
		}
		cfg.WorkerStrategy = strategyType
		cfg.WorkerPoolSize = poolSize
		cfg.WorkerQueueSize = queueSize
		cfg.WorkerJobTimeout = jobTimeout
		return nil
	}
}
