package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
)

func TestNewClient_Standalone_Success(t *testing.T) {
	_, client := newMiniClient(t)
	assert.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "aeroops:", client.KeyPrefix())
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	client, err := NewClient(config.RedisConfig{Mode: "standalone", Addr: "127.0.0.1:1"}, logging.NewNopLogger())
	assert.Nil(t, client)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
}

func TestClient_Operations(t *testing.T) {
	_, client := newMiniClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "foo", "bar", 0).Err())
	val, err := client.Get(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, "bar", val)

	n, err := client.Exists(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, client.Del(ctx, "foo").Err())
	n, _ = client.Exists(ctx, "foo").Result()
	assert.Equal(t, int64(0), n)
}

func TestClient_Closed(t *testing.T) {
	_, client := newMiniClient(t)
	ctx := context.Background()
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	assert.Equal(t, ErrClientClosed, client.Get(ctx, "k").Err())
	assert.Equal(t, ErrClientClosed, client.Set(ctx, "k", "v", 0).Err())
	assert.Equal(t, ErrClientClosed, client.Del(ctx, "k").Err())
	assert.Equal(t, ErrClientClosed, client.Ping(ctx))
}

func TestKeyPrefix_Custom(t *testing.T) {
	c := NewClientFromUniversal(nil, config.RedisConfig{KeyPrefix: "x:"}, logging.NewNopLogger())
	assert.Equal(t, "x:", c.KeyPrefix())
}

func TestArticleScope(t *testing.T) {
	assert.Equal(t, []string{"acme:articles:list", "acme:articles:quarantine", "acme:articles:42"}, ArticleScope("acme", 42))
	assert.Equal(t, []string{"acme:articles:list", "acme:articles:quarantine"}, ArticleScope("acme", 0))
	assert.Equal(t, "acme:statistics:purchase-orders:2026-01-01_2026-12-31", StatisticsKey("acme", "purchase-orders", "2026-01-01_2026-12-31"))
	assert.Equal(t, "acme:sms:report:7", ReportKey("acme", 7))
}

//Personal.AI order the ending
