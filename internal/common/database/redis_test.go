package database

import (
	"context"
	"testing"
	"time"

	"leadgen/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisClient_JSONRoundTrip(t *testing.T) {
	c, mr := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	type point struct{ Lat, Lng float64 }
	require.NoError(t, c.SetJSON(ctx, "geocode:lahore", point{31.52, 74.35}, time.Minute))

	var got point
	require.NoError(t, c.GetJSON(ctx, "geocode:lahore", &got))
	assert.Equal(t, point{31.52, 74.35}, got)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.GetJSON(ctx, "geocode:lahore", &got), ErrCacheMiss)
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}
