package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// RedirectRepo реализует repository.RedirectRepository
type RedirectRepo struct {
	store
}

// NewRedirectRepo создает репозиторий перенаправлений
func NewRedirectRepo(client redis.UniversalClient) *RedirectRepo {
	return &RedirectRepo{store: newStore(client)}
}

// Save создаёт или заменяет перенаправление. Source должен быть нормализован.
func (r *RedirectRepo) Save(ctx context.Context, rd *entity.Redirect) error {
	if err := r.setJSON(ctx, redirectKey(rd.Source), rd, 0); err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, keyRedirects, rd.Source).Err(); err != nil {
		return fmt.Errorf("index redirect %s: %w", rd.Source, err)
	}
	return nil
}

// Get возвращает перенаправление с количеством срабатываний
func (r *RedirectRepo) Get(ctx context.Context, source string) (*entity.Redirect, error) {
	var rd entity.Redirect
	if err := r.getJSON(ctx, redirectKey(source), &rd); err != nil {
		return nil, err
	}
	hits, err := r.client.Get(ctx, redirectHitsKey(source)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get redirect hits %s: %w", source, err)
	}
	rd.Hits = hits
	return &rd, nil
}

// Delete удаляет перенаправление
func (r *RedirectRepo) Delete(ctx context.Context, source string) error {
	if _, err := r.Get(ctx, source); err != nil {
		return err
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		delEach(ctx, pipe, redirectKey(source), redirectHitsKey(source))
		pipe.SRem(ctx, keyRedirects, source)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete redirect %s: %w", source, err)
	}
	return nil
}

// List возвращает все перенаправления, отсортированные по source
func (r *RedirectRepo) List(ctx context.Context) ([]*entity.Redirect, error) {
	sources, err := r.members(ctx, keyRedirects)
	if err != nil {
		return nil, err
	}
	raw, err := r.getMany(ctx, keysFor(sources, redirectKey))
	if err != nil {
		return nil, err
	}
	items, err := decodeAll[entity.Redirect](raw)
	if err != nil {
		return nil, err
	}

	hits := make([]*redis.StringCmd, len(items))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, rd := range items {
			hits[i] = pipe.Get(ctx, redirectHitsKey(rd.Source))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get redirect hits: %w", err)
	}
	for i, cmd := range hits {
		if val, err := cmd.Result(); err == nil {
			items[i].Hits, _ = strconv.ParseInt(val, 10, 64)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Source < items[j].Source })
	return items, nil
}

// RecordHit увеличивает счётчик срабатываний
func (r *RedirectRepo) RecordHit(ctx context.Context, source string) error {
	if err := r.client.Incr(ctx, redirectHitsKey(source)).Err(); err != nil {
		return fmt.Errorf("incr redirect hits %s: %w", source, err)
	}
	return nil
}
