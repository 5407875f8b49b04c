package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// ClientRepository определяет методы для работы с клиентами
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	// Delete удаляет клиента вместе с питомцами и индексами записей на приём
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Client, error)
}
