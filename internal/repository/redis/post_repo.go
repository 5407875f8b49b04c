package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// PostRepo реализует repository.PostRepository
type PostRepo struct {
	store
}

// NewPostRepo создает репозиторий статей
func NewPostRepo(client redis.UniversalClient) *PostRepo {
	return &PostRepo{store: newStore(client)}
}

func postScore(p *entity.Post) float64 {
	if p.PublishedAt != nil {
		return score(*p.PublishedAt)
	}
	return score(p.CreatedAt)
}

func (r *PostRepo) reserveSlug(ctx context.Context, p *entity.Post) error {
	ok, err := r.client.SetNX(ctx, postSlugKey(p.Locale, p.Slug), p.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("reserve post slug: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: post %s/%s already exists", apperrors.ErrConflict, p.Locale, p.Slug)
	}
	return nil
}

// Create сохраняет статью. Пара (locale, slug) уникальна.
func (r *PostRepo) Create(ctx context.Context, p *entity.Post) error {
	if err := r.reserveSlug(ctx, p); err != nil {
		return err
	}
	if err := r.setJSON(ctx, postKey(p.ID), p, 0); err != nil {
		r.client.Del(ctx, postSlugKey(p.Locale, p.Slug))
		return err
	}
	if err := r.client.ZAdd(ctx, keyPosts, &redis.Z{Score: postScore(p), Member: p.ID}).Err(); err != nil {
		return fmt.Errorf("index post %s: %w", p.ID, err)
	}
	return nil
}

// GetByID возвращает статью с актуальным счётчиком просмотров
func (r *PostRepo) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var p entity.Post
	if err := r.getJSON(ctx, postKey(id), &p); err != nil {
		return nil, err
	}
	views, err := r.client.Get(ctx, postViewsKey(id)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get post views %s: %w", id, err)
	}
	p.Views = views
	return &p, nil
}

// GetBySlug ищет статью по локали и slug
func (r *PostRepo) GetBySlug(ctx context.Context, locale, slug string) (*entity.Post, error) {
	id, err := r.getString(ctx, postSlugKey(locale, slug))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update перезаписывает статью и при смене slug/локали переносит индекс
func (r *PostRepo) Update(ctx context.Context, p *entity.Post) error {
	existing, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	moved := existing.Slug != p.Slug || existing.Locale != p.Locale
	if moved {
		if err := r.reserveSlug(ctx, p); err != nil {
			return err
		}
	}
	if err := r.setJSON(ctx, postKey(p.ID), p, 0); err != nil {
		if moved {
			r.client.Del(ctx, postSlugKey(p.Locale, p.Slug))
		}
		return err
	}
	if moved {
		if err := r.client.Del(ctx, postSlugKey(existing.Locale, existing.Slug)).Err(); err != nil {
			log.Printf("[PostRepo] failed to release old slug index for post %s: %v", p.ID, err)
		}
	}
	if err := r.client.ZAdd(ctx, keyPosts, &redis.Z{Score: postScore(p), Member: p.ID}).Err(); err != nil {
		return fmt.Errorf("index post %s: %w", p.ID, err)
	}
	return nil
}

// Delete удаляет статью, slug-индекс и счётчик просмотров
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		delEach(ctx, pipe, postKey(id), postViewsKey(id), postSlugKey(p.Locale, p.Slug))
		pipe.ZRem(ctx, keyPosts, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

// List возвращает статьи от новых к старым; locale == "" - все локали
func (r *PostRepo) List(ctx context.Context, locale string) ([]*entity.Post, error) {
	ids, _, err := r.pageByScore(ctx, keyPosts, 0, 0)
	if err != nil {
		return nil, err
	}
	raw, err := r.getMany(ctx, keysFor(ids, postKey))
	if err != nil {
		return nil, err
	}
	all, err := decodeAll[entity.Post](raw)
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, 0, len(all))
	for _, p := range all {
		if locale == "" || p.Locale == locale {
			posts = append(posts, p)
		}
	}
	if err := r.fillViews(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPublished возвращает только опубликованные статьи локали
func (r *PostRepo) ListPublished(ctx context.Context, locale string) ([]*entity.Post, error) {
	posts, err := r.List(ctx, locale)
	if err != nil {
		return nil, err
	}
	published := posts[:0]
	for _, p := range posts {
		if p.IsPublished() {
			published = append(published, p)
		}
	}
	return published, nil
}

// IncrementViews увеличивает счётчик просмотров статьи
func (r *PostRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	n, err := r.client.Incr(ctx, postViewsKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("incr post views %s: %w", id, err)
	}
	return n, nil
}

func (r *PostRepo) fillViews(ctx context.Context, posts []*entity.Post) error {
	if len(posts) == 0 {
		return nil
	}
	cmds := make([]*redis.StringCmd, len(posts))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, p := range posts {
			cmds[i] = pipe.Get(ctx, postViewsKey(p.ID))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("get post views: %w", err)
	}
	for i, cmd := range cmds {
		val, err := cmd.Result()
		if err != nil {
			continue
		}
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			posts[i].Views = n
		}
	}
	return nil
}
