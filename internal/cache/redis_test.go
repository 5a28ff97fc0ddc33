package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDeduperWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := Connect(ctx, mr.Addr(), "")
	require.NoError(t, err)
	defer client.Close()

	d := NewRedisDeduper(client, "play:")

	first, err := d.FirstSeen(ctx, "1:2", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := d.FirstSeen(ctx, "1:2", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, again)

	other, err := d.FirstSeen(ctx, "1:3", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, other)
	assert.True(t, mr.Exists("play:1:2"))

	mr.FastForward(31 * time.Second)
	expired, err := d.FirstSeen(ctx, "1:2", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestRedisDeduperRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	client, err := Connect(ctx, mr.Addr(), "")
	require.NoError(t, err)
	defer client.Close()

	d := NewRedisDeduper(client, "play:")
	first, err := d.FirstSeen(ctx, "4:2", time.Minute)
	require.NoError(t, err)
	require.True(t, first)

	require.NoError(t, d.Release(ctx, "4:2"))
	assert.False(t, mr.Exists("play:4:2"))

	again, err := d.FirstSeen(ctx, "4:2", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)

	assert.NoError(t, d.Release(ctx, "never-claimed"))
}

func TestRedisDeduperZeroWindowDisables(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	defer client.Close()

	d := NewRedisDeduper(client, "")
	for i := 0; i < 3; i++ {
		ok, err := d.FirstSeen(context.Background(), "k", 0)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), addr, "")
	assert.Error(t, err)
}

func TestNoopDeduper(t *testing.T) {
	ok, err := NoopDeduper{}.FirstSeen(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, NoopDeduper{}.Release(context.Background(), "k"))
}
