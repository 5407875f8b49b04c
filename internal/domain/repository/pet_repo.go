package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// PetRepository определяет методы для работы с питомцами
type PetRepository interface {
	Create(ctx context.Context, pet *entity.Pet) error
	GetByID(ctx context.Context, id string) (*entity.Pet, error)
	Update(ctx context.Context, pet *entity.Pet) error
	Delete(ctx context.Context, id string) error
	ListByClient(ctx context.Context, clientID string) ([]*entity.Pet, error)
}
