package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
)

func newMiniClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(config.RedisConfig{Mode: "standalone", Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestMutex_Lock_Unlock(t *testing.T) {
	mr, client := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	lock := factory.NewMutex("sweep:acme", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))
	assert.True(t, mr.Exists("aeroops:lock:sweep:acme"))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("aeroops:lock:sweep:acme"))
}

func TestMutex_Lock_Contention(t *testing.T) {
	_, client := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	lock1 := factory.NewMutex("sweep:acme", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))
	lock2 := factory.NewMutex("sweep:acme", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))

	require.NoError(t, lock1.Lock(ctx))
	assert.Equal(t, ErrLockNotAcquired, lock2.Lock(ctx))

	ok, err := lock2.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock1.Unlock(ctx))
	assert.NoError(t, lock2.Lock(ctx))
}

func TestMutex_UnlockNotHeld(t *testing.T) {
	_, client := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())

	lock := factory.NewMutex("sweep:acme")
	assert.Equal(t, ErrLockNotHeld, lock.Unlock(context.Background()))
}

func TestMutex_Extend(t *testing.T) {
	mr, client := newMiniClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	lock := factory.NewMutex("sweep:acme", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))

	ok, err := lock.Extend(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10*time.Second, mr.TTL("aeroops:lock:sweep:acme"))

	other := factory.NewMutex("sweep:acme")
	ok, err = other.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

//Personal.AI order the ending
