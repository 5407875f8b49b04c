package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// AdminRepo реализует repository.AdminRepository
type AdminRepo struct {
	store
}

// NewAdminRepo создает репозиторий администраторов
func NewAdminRepo(client redis.UniversalClient) *AdminRepo {
	return &AdminRepo{store: newStore(client)}
}

// Save сохраняет учётную запись администратора
func (r *AdminRepo) Save(ctx context.Context, admin *entity.AdminUser) error {
	admin.Email = entity.NormalizeEmail(admin.Email)
	return r.setJSON(ctx, adminKey(admin.Email), admin, 0)
}

// GetByEmail возвращает администратора по email
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*entity.AdminUser, error) {
	var admin entity.AdminUser
	if err := r.getJSON(ctx, adminKey(entity.NormalizeEmail(email)), &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}
