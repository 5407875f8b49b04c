package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// ContactRepository определяет методы для работы с обращениями
type ContactRepository interface {
	Create(ctx context.Context, submission *entity.ContactSubmission) error
	GetByID(ctx context.Context, id string) (*entity.ContactSubmission, error)
	Update(ctx context.Context, submission *entity.ContactSubmission) error
	UpdateStatus(ctx context.Context, id, status string) (*entity.ContactSubmission, error)
	// AddReply добавляет ответ и переводит обращение в статус replied
	AddReply(ctx context.Context, id string, reply entity.ContactReply) (*entity.ContactSubmission, error)
	Delete(ctx context.Context, id string) error
	// List возвращает обращения от новых к старым
	List(ctx context.Context, limit, offset int) ([]*entity.ContactSubmission, int64, error)
}
