package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// AdminRepository определяет методы для работы с учётными записями администраторов
type AdminRepository interface {
	Save(ctx context.Context, admin *entity.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
}
