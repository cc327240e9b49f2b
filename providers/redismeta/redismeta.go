// Package redismeta sources logging metadata from a Redis hash, for contexts
// that are managed centrally (deployment color, feature cohort, tenant tags)
// rather than known at process start.
//
// A Source is meant to feed a jamulsoe.CachedProvider: reading Redis on every
// log record would put the network on the logging path.
package redismeta

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mrchypark/jamulsoe"
)

// Source reads one Redis hash into Metadata.
type Source struct {
	client redis.Cmdable
	key    string
}

// New creates a Source reading the hash stored at key.
func New(client redis.Cmdable, key string) (*Source, error) {
	if client == nil {
		return nil, fmt.Errorf("redismeta: client cannot be nil")
	}
	if key == "" {
		return nil, fmt.Errorf("redismeta: key cannot be empty")
	}
	return &Source{client: client, key: key}, nil
}

// Fetch reads the whole hash. A missing key yields empty metadata, not an
// error; in a Multiplex chain an empty contribution is neutral.
func (s *Source) Fetch(ctx context.Context) (jamulsoe.Metadata, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redismeta: fetch %q: %w", s.key, err)
	}

	md := make(jamulsoe.Metadata, len(fields))
	for k, v := range fields {
		md[k] = v
	}
	return md, nil
}

// FetchFunc adapts the source for jamulsoe.NewCachedProvider.
func (s *Source) FetchFunc() jamulsoe.FetchFunc {
	return s.Fetch
}
