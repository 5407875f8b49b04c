package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// store - общие JSON-помощники поверх Redis, используемые всеми репозиториями
type store struct {
	client redis.UniversalClient
}

func newStore(client redis.UniversalClient) store {
	return store{client: client}
}

// setJSON сохраняет структуру в JSON
func (s store) setJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// getBytes читает значение; redis.Nil превращается в ErrNotFound
func (s store) getBytes(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

// getJSON читает и декодирует JSON-значение
func (s store) getJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := s.getBytes(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

// getString читает строковое значение (например, id из вторичного индекса)
func (s store) getString(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

// delEach ставит в pipeline отдельный DEL на каждый ключ. Связанные ключи
// (запись и её индексы) лежат в разных слотах кластера, а DEL по нескольким
// слотам сервер отклоняет с CROSSSLOT.
func delEach(ctx context.Context, pipe redis.Pipeliner, keys ...string) {
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
}

// getMany читает несколько ключей одним pipeline. Отсутствующие ключи пропускаются:
// индекс может ссылаться на уже удалённую запись, такие хвосты чистит reconcile.
// GET по одному ключу работает и в кластере, где MGET по разным слотам запрещён.
func (s store) getMany(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	cmds := make([]*redis.StringCmd, len(keys))
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.Get(ctx, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pipeline get: %w", err)
	}

	result := make([][]byte, 0, len(keys))
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", cmd.Args()[1], err)
		}
		result = append(result, data)
	}
	return result, nil
}

// exists проверяет существование ключа
func (s store) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return n > 0, nil
}

// members возвращает элементы множества
func (s store) members(ctx context.Context, key string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", key, err)
	}
	return ids, nil
}

// scanKeys перебирает ключи по шаблону курсором SCAN. В режиме кластера обходит все мастера.
func (s store) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	cluster, ok := s.client.(*redis.ClusterClient)
	if !ok {
		return scanAll(ctx, s.client, pattern)
	}

	var (
		mu   sync.Mutex
		keys []string
	)
	err := cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
		found, err := scanAll(ctx, node, pattern)
		if err != nil {
			return err
		}
		mu.Lock()
		keys = append(keys, found...)
		mu.Unlock()
		return nil
	})
	return keys, err
}

func scanAll(ctx context.Context, client redis.Cmdable, pattern string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", pattern, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// pageByScore читает страницу id из сортированного индекса по убыванию score
func (s store) pageByScore(ctx context.Context, key string, limit, offset int) ([]string, int64, error) {
	total, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("zcard %s: %w", key, err)
	}
	if offset < 0 {
		offset = 0
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}
	ids, err := s.client.ZRevRange(ctx, key, int64(offset), stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("zrevrange %s: %w", key, err)
	}
	return ids, total, nil
}

func decodeAll[T any](raw [][]byte) ([]*T, error) {
	items := make([]*T, 0, len(raw))
	for _, data := range raw {
		item := new(T)
		if err := json.Unmarshal(data, item); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func keysFor(ids []string, keyFn func(string) string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyFn(id)
	}
	return keys
}

// score - время для сортированных индексов
func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}
