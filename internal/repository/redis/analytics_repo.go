package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// AnalyticsRepo реализует repository.AnalyticsRepository
type AnalyticsRepo struct {
	store
}

// NewAnalyticsRepo создает репозиторий счётчиков аналитики
func NewAnalyticsRepo(client redis.UniversalClient) *AnalyticsRepo {
	return &AnalyticsRepo{store: newStore(client)}
}

// Increment увеличивает счётчик analytics:{dimension}:{date}:{key}
func (r *AnalyticsRepo) Increment(ctx context.Context, dimension, date, key string) (int64, error) {
	n, err := r.client.Incr(ctx, analyticsKey(dimension, date, key)).Result()
	if err != nil {
		return 0, fmt.Errorf("incr analytics %s/%s: %w", dimension, date, err)
	}
	return n, nil
}

// Range для каждой даты сканирует ключи измерения и читает счётчики.
// Дата без данных в результат не попадает.
func (r *AnalyticsRepo) Range(ctx context.Context, dimension string, dates []string) (entity.DailyCounts, error) {
	result := make(entity.DailyCounts)
	for _, date := range dates {
		prefix := analyticsPrefix(dimension, date)
		keys, err := r.scanKeys(ctx, prefix+"*")
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			continue
		}

		cmds := make([]*redis.StringCmd, len(keys))
		_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, key := range keys {
				cmds[i] = pipe.Get(ctx, key)
			}
			return nil
		})
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("read analytics %s/%s: %w", dimension, date, err)
		}

		byKey := make(map[string]int64, len(keys))
		for i, cmd := range cmds {
			val, err := cmd.Result()
			if err != nil {
				continue
			}
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				continue
			}
			byKey[strings.TrimPrefix(keys[i], prefix)] += n
		}
		if len(byKey) > 0 {
			result[date] = byKey
		}
	}
	return result, nil
}
