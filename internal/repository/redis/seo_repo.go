package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// SEORepo реализует repository.SEORepository
type SEORepo struct {
	store
}

// NewSEORepo создает репозиторий SEO-метаданных
func NewSEORepo(client redis.UniversalClient) *SEORepo {
	return &SEORepo{store: newStore(client)}
}

// Save создаёт или заменяет метаданные страницы
func (r *SEORepo) Save(ctx context.Context, page *entity.SEOPage) error {
	if err := r.setJSON(ctx, seoKey(page.Locale, page.Path), page, 0); err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, keySEOPages, seoMember(page.Locale, page.Path)).Err(); err != nil {
		return fmt.Errorf("index seo page %s%s: %w", page.Locale, page.Path, err)
	}
	return nil
}

// Get возвращает метаданные страницы
func (r *SEORepo) Get(ctx context.Context, locale, path string) (*entity.SEOPage, error) {
	var page entity.SEOPage
	if err := r.getJSON(ctx, seoKey(locale, path), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Delete удаляет метаданные страницы
func (r *SEORepo) Delete(ctx context.Context, locale, path string) error {
	if _, err := r.Get(ctx, locale, path); err != nil {
		return err
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, seoKey(locale, path))
		pipe.SRem(ctx, keySEOPages, seoMember(locale, path))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete seo page: %w", err)
	}
	return nil
}

// List возвращает все страницы, отсортированные по локали и пути
func (r *SEORepo) List(ctx context.Context) ([]*entity.SEOPage, error) {
	members, err := r.members(ctx, keySEOPages)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(members))
	for _, m := range members {
		if locale, path, ok := splitSEOMember(m); ok {
			keys = append(keys, seoKey(locale, path))
		}
	}
	raw, err := r.getMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	pages, err := decodeAll[entity.SEOPage](raw)
	if err != nil {
		return nil, err
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Locale != pages[j].Locale {
			return pages[i].Locale < pages[j].Locale
		}
		return pages[i].Path < pages[j].Path
	})
	return pages, nil
}
