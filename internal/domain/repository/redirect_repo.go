package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// RedirectRepository определяет методы для работы с перенаправлениями
type RedirectRepository interface {
	Save(ctx context.Context, redirect *entity.Redirect) error
	Get(ctx context.Context, source string) (*entity.Redirect, error)
	Delete(ctx context.Context, source string) error
	List(ctx context.Context) ([]*entity.Redirect, error)
	RecordHit(ctx context.Context, source string) error
}
