package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// PostRepository определяет методы для работы со статьями блога
type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetBySlug(ctx context.Context, locale, slug string) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
	// List возвращает все статьи (для админки), locale == "" - все локали
	List(ctx context.Context, locale string) ([]*entity.Post, error)
	// ListPublished возвращает опубликованные статьи локали от новых к старым
	ListPublished(ctx context.Context, locale string) ([]*entity.Post, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
}
