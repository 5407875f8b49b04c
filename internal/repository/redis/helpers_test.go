package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestRedis(t *testing.T) (redis.UniversalClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

var baseTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

var errInjected = errors.New("injected write failure")

// failSetHook отклоняет SET по заданному ключу, не отправляя его в Redis
type failSetHook struct {
	key string
}

func (h failSetHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	if args := cmd.Args(); cmd.Name() == "set" && len(args) > 1 && args[1] == h.key {
		return ctx, errInjected
	}
	return ctx, nil
}

func (failSetHook) AfterProcess(context.Context, redis.Cmder) error { return nil }

func (failSetHook) BeforeProcessPipeline(ctx context.Context, _ []redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (failSetHook) AfterProcessPipeline(context.Context, []redis.Cmder) error { return nil }
