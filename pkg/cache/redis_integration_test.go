//go:build integration

package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"routebook/internal/models"
)

func TestRedisCacheAgainstRedis(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	portNumber, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	c, err := NewRedisCache(ctx, &RedisConfig{Host: host, Port: portNumber, PoolSize: 2, DialTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	var got models.Coordinate
	assert.ErrorIs(t, c.Get(ctx, "geocode:москва", &got), ErrCacheMiss)

	want := models.Coordinate{Latitude: 55.7558, Longitude: 37.6173}
	require.NoError(t, c.Set(ctx, "geocode:москва", want, time.Minute))
	require.NoError(t, c.Get(ctx, "geocode:москва", &got))
	assert.Equal(t, want, got)

	require.NoError(t, c.Set(ctx, "geocode:short", want, 50*time.Millisecond))
	assert.Eventually(t, func() bool {
		return c.Get(ctx, "geocode:short", &got) == ErrCacheMiss
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, c.Delete(ctx, "geocode:москва"))
	assert.ErrorIs(t, c.Get(ctx, "geocode:москва", &got), ErrCacheMiss)

	other := NewRedisCacheFromClient(redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
		DB:   1,
	}))
	t.Cleanup(func() { _ = other.Close() })
	require.NoError(t, other.Ping(ctx))

	require.NoError(t, c.Set(ctx, "geocode:тула", want, time.Minute))
	assert.ErrorIs(t, other.Get(ctx, "geocode:тула", &got), ErrCacheMiss)
}
