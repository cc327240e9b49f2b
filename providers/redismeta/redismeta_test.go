package redismeta

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrchypark/jamulsoe"
)

func setupSource(t *testing.T) (*miniredis.Miniredis, *Source) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	source, err := New(client, "logctx")
	require.NoError(t, err)

	return mr, source
}

func TestNew_Validation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	_, err := New(nil, "logctx")
	assert.Error(t, err)

	_, err = New(client, "")
	assert.Error(t, err)
}

func TestSource_Fetch(t *testing.T) {
	mr, source := setupSource(t)
	mr.HSet("logctx", "env", "prod")
	mr.HSet("logctx", "color", "blue")

	md, err := source.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, jamulsoe.Metadata{"env": "prod", "color": "blue"}, md)
}

func TestSource_Fetch_MissingKeyIsEmpty(t *testing.T) {
	_, source := setupSource(t)

	md, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, md)
}

func TestSource_Fetch_ServerDown(t *testing.T) {
	mr, source := setupSource(t)
	mr.Close()

	_, err := source.Fetch(context.Background())
	assert.Error(t, err)
}

// TestSource_WithCachedProvider wires the source into a CachedProvider and
// verifies that a hash update is visible after a refresh.
func TestSource_WithCachedProvider(t *testing.T) {
	mr, source := setupSource(t)
	mr.HSet("logctx", "env", "prod")

	cached, err := jamulsoe.NewCachedProvider(source.FetchFunc(),
		jamulsoe.WithRefreshInterval(time.Minute),
	)
	require.NoError(t, err)
	defer cached.Close()

	provider := cached.Provider()
	require.Equal(t, jamulsoe.Metadata{"env": "prod"}, provider())

	mr.HSet("logctx", "env", "staging")
	require.NoError(t, cached.Refresh(context.Background()))

	assert.Equal(t, jamulsoe.Metadata{"env": "staging"}, provider())
}
