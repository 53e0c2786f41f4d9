package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects", func(t *testing.T) {
		t.Parallel()
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		client, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL: "redis://" + mr.Addr() + "/0",
			RetryAttempts: 1,
		})
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, redis.Healthcheck(client)(context.Background()))
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		cfg := redis.Config{}
		assert.False(t, cfg.Enabled())
		_, err := redis.Connect(context.Background(), cfg)
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("bad url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://nope"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("server gone", func(t *testing.T) {
		t.Parallel()
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		_, err = redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://" + addr,
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: 2 * time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}

func TestHealthcheck_Fails(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "redis://" + mr.Addr(), RetryAttempts: 1})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	assert.ErrorIs(t, redis.Healthcheck(client)(context.Background()), redis.ErrHealthcheckFailed)
}
