package redis

import (
	"context"
	"time"
)

// nopCache stores nothing. GetOrSet always runs the loader.
type nopCache struct {
	serializer Serializer
}

// NewNopCache returns a Cache for deployments without redis.
func NewNopCache() Cache {
	return nopCache{serializer: jsonSerializer{}}
}

func (nopCache) Get(context.Context, string, interface{}) error { return ErrCacheMiss }

func (nopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (nopCache) Delete(context.Context, ...string) error { return nil }

func (nopCache) Exists(context.Context, string) (bool, error) { return false, nil }

func (c nopCache) GetOrSet(ctx context.Context, _ string, dest interface{}, _ time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrCacheMiss
	}
	data, err := c.serializer.Marshal(v)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	return c.serializer.Unmarshal(data, dest)
}

func (nopCache) DeleteByPrefix(context.Context, string) (int64, error) { return 0, nil }

func (nopCache) Ping(context.Context) error { return nil }

//Personal.AI order the ending
