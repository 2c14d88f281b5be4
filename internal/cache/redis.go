// Package cache provides the Redis client and read-through helpers used by
// the user and thread repositories.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quill/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// commandMetrics counts failed Redis commands per command name.
type commandMetrics struct{}

func (commandMetrics) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (commandMetrics) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (commandMetrics) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects to Redis at addr, which may be a plain host:port or a
// redis:// URL. Redis is optional: on any failure the package client stays
// nil and repositories read straight from Postgres.
func InitRedis(addr string) {
	opts, err := parseAddr(addr)
	if err != nil {
		slog.Warn("invalid REDIS_URL, continuing without cache", "addr", addr, "error", err)
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(commandMetrics{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, continuing without cache", "error", err)
		client = nil
		return
	}

	slog.Info("redis connected", "addr", opts.Addr)
	client = c
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// SetClient replaces the package client. Intended for tests.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the current Redis client, or nil when caching is off.
func GetClient() *redis.Client {
	return client
}
