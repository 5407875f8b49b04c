package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// SEORepository определяет методы для работы с SEO-метаданными страниц
type SEORepository interface {
	Save(ctx context.Context, page *entity.SEOPage) error
	Get(ctx context.Context, locale, path string) (*entity.SEOPage, error)
	Delete(ctx context.Context, locale, path string) error
	List(ctx context.Context) ([]*entity.SEOPage, error)
}
