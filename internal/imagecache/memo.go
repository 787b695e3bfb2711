package imagecache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"story-relay/internal/cachekey"
)

// URLMemo запоминает уже известные URL, чтобы не ходить в хранилище за проверкой наличия.
// Ошибки memo никогда не влияют на результат Cache.
type URLMemo interface {
	Get(ctx context.Context, key cachekey.Key) (string, bool, error)
	Set(ctx context.Context, key cachekey.Key, url string) error
}

type noopMemo struct{}

func (noopMemo) Get(context.Context, cachekey.Key) (string, bool, error) { return "", false, nil }
func (noopMemo) Set(context.Context, cachekey.Key, string) error         { return nil }

const redisMemoPrefix = "imagecache:"

// RedisMemo хранит key -> URL в Redis с TTL.
type RedisMemo struct {
	client *redis.Client
	ttl    time.Duration
}

var _ URLMemo = (*RedisMemo)(nil)

// NewRedisMemo создает memo. ttl <= 0 означает хранение без срока.
func NewRedisMemo(client *redis.Client, ttl time.Duration) *RedisMemo {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisMemo{client: client, ttl: ttl}
}

func (m *RedisMemo) Get(ctx context.Context, key cachekey.Key) (string, bool, error) {
	url, err := m.client.Get(ctx, redisMemoPrefix+key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func (m *RedisMemo) Set(ctx context.Context, key cachekey.Key, url string) error {
	return m.client.Set(ctx, redisMemoPrefix+key.String(), url, m.ttl).Err()
}
