package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// OnboardingRepository определяет методы для работы со статусом онбординга и анкетами
type OnboardingRepository interface {
	// Create создаёт статус, только если его ещё нет. Возвращает false, если запись уже существовала.
	Create(ctx context.Context, status *entity.OnboardingStatus) (bool, error)
	Get(ctx context.Context, clientID, petID string) (*entity.OnboardingStatus, error)
	Update(ctx context.Context, status *entity.OnboardingStatus) error
	ListByClient(ctx context.Context, clientID string) ([]*entity.OnboardingStatus, error)
	SaveMedicalHistory(ctx context.Context, submission *entity.MedicalHistorySubmission) error
	GetMedicalHistory(ctx context.Context, clientID, petID string) (*entity.MedicalHistorySubmission, error)
	SaveDraft(ctx context.Context, draft *entity.IntakeDraft) error
	GetDraft(ctx context.Context, clientID, petID string) (*entity.IntakeDraft, error)
	DeleteDraft(ctx context.Context, clientID, petID string) error
}
