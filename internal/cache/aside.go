package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"quill/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: read dest from cache by key, and
// on a miss invoke load and store the result with the given TTL. When Redis
// is unavailable the loader runs directly; caching is strictly best-effort.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	prefix := keyPrefix(key)

	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
				observability.CacheRequests.WithLabelValues(prefix, "hit").Inc()
				return nil
			}
			// Corrupt entry; fall through to the loader and overwrite it.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			// Redis trouble is not a reason to fail the read.
			observability.CacheRequests.WithLabelValues(prefix, "error").Inc()
		}
	}

	observability.CacheRequests.WithLabelValues(prefix, "miss").Inc()

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}

	return nil
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
