package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// AppointmentRepository определяет методы для работы с записями на приём
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	// AssignOwner связывает запись с клиентом и питомцем и переносит её между индексами
	AssignOwner(ctx context.Context, id, clientID, petID string) (*entity.Appointment, error)
	Delete(ctx context.Context, id string) error
	// List возвращает записи от новых к старым
	List(ctx context.Context, limit, offset int) ([]*entity.Appointment, int64, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Appointment, error)
	ListByPet(ctx context.Context, petID string) ([]*entity.Appointment, error)
}
