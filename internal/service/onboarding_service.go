package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// OnboardingService ведёт прогресс онбординга и анкеты медицинского анамнеза
type OnboardingService struct {
	repo repository.OnboardingRepository
	pets repository.PetRepository
	now  func() time.Time
}

// NewOnboardingService создает сервис онбординга
func NewOnboardingService(repo repository.OnboardingRepository, pets repository.PetRepository) *OnboardingService {
	return &OnboardingService{repo: repo, pets: pets, now: time.Now}
}

// ownedPet проверяет, что питомец существует и принадлежит клиенту
func (s *OnboardingService) ownedPet(ctx context.Context, clientID, petID string) (*entity.Pet, error) {
	if petID == "" {
		return nil, validationError("pet_id is required")
	}
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.ClientID != clientID {
		return nil, fmt.Errorf("%w: pet %s does not belong to client", apperrors.ErrForbidden, petID)
	}
	return pet, nil
}

// Create создаёт запись онбординга. Повторный вызов возвращает существующую запись.
func (s *OnboardingService) Create(ctx context.Context, clientID, petID string) (*entity.OnboardingStatus, error) {
	if _, err := s.ownedPet(ctx, clientID, petID); err != nil {
		return nil, err
	}
	return s.create(ctx, clientID, petID)
}

func (s *OnboardingService) create(ctx context.Context, clientID, petID string) (*entity.OnboardingStatus, error) {
	status := entity.NewOnboardingStatus(clientID, petID, s.now())
	created, err := s.repo.Create(ctx, status)
	if err != nil {
		return nil, err
	}
	if created {
		return status, nil
	}
	return s.repo.Get(ctx, clientID, petID)
}

// Get возвращает статус онбординга
func (s *OnboardingService) Get(ctx context.Context, clientID, petID string) (*entity.OnboardingStatus, error) {
	if _, err := s.ownedPet(ctx, clientID, petID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, clientID, petID)
}

// UpdateStep отмечает этап. Отсутствующая запись создаётся.
func (s *OnboardingService) UpdateStep(ctx context.Context, clientID, petID string, step entity.OnboardingStep, completed bool) (*entity.OnboardingStatus, error) {
	if !entity.IsValidOnboardingStep(step) {
		return nil, validationError("unknown onboarding step %q", step)
	}
	if step == entity.OnboardingStepAccount && !completed {
		return nil, validationError("account step cannot be reset")
	}
	if _, err := s.ownedPet(ctx, clientID, petID); err != nil {
		return nil, err
	}

	status, err := s.create(ctx, clientID, petID)
	if err != nil {
		return nil, err
	}
	status.MarkStep(step, completed, s.now())
	if err := s.repo.Update(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

// UpdateStepForClient отмечает этап во всех записях онбординга клиента
func (s *OnboardingService) UpdateStepForClient(ctx context.Context, clientID string, step entity.OnboardingStep, completed bool) error {
	statuses, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return err
	}
	for _, status := range statuses {
		if status.IsStepComplete(step) == completed {
			continue
		}
		status.MarkStep(step, completed, s.now())
		if err := s.repo.Update(ctx, status); err != nil {
			return err
		}
	}
	return nil
}

// ListForClient возвращает статусы по всем питомцам клиента
func (s *OnboardingService) ListForClient(ctx context.Context, clientID string) ([]*entity.OnboardingStatus, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// SubmitMedicalHistory проводит анкету через все шаги мастера и сохраняет её.
// Ошибка сохранения возвращается как есть, анкету можно отправить повторно.
func (s *OnboardingService) SubmitMedicalHistory(ctx context.Context, clientID, petID string, data entity.MedicalHistory) (*entity.MedicalHistorySubmission, error) {
	if _, err := s.ownedPet(ctx, clientID, petID); err != nil {
		return nil, err
	}

	wizard := entity.NewIntakeWizard(data)
	for wizard.Step < entity.IntakeStepCount {
		if err := wizard.Next(); err != nil {
			return nil, stepValidationError(err)
		}
	}

	var submission *entity.MedicalHistorySubmission
	err := wizard.Submit(func(payload entity.MedicalHistory) error {
		submission = &entity.MedicalHistorySubmission{
			ClientID:    clientID,
			PetID:       petID,
			Data:        payload,
			SubmittedAt: s.now().UTC(),
		}
		return s.repo.SaveMedicalHistory(ctx, submission)
	})
	if err != nil {
		var stepErr *entity.StepError
		if errors.As(err, &stepErr) {
			return nil, stepValidationError(err)
		}
		return nil, fmt.Errorf("failed to save medical history: %w", err)
	}

	if err := s.repo.DeleteDraft(ctx, clientID, petID); err != nil {
		log.Printf("[OnboardingService] failed to delete draft for %s/%s: %v", clientID, petID, err)
	}
	for _, step := range []entity.OnboardingStep{entity.OnboardingStepPetProfile, entity.OnboardingStepMedicalHistory} {
		if _, err := s.UpdateStep(ctx, clientID, petID, step, true); err != nil {
			log.Printf("[OnboardingService] failed to mark %s for %s/%s: %v", step, clientID, petID, err)
		}
	}
	return submission, nil
}

func stepValidationError(err error) error {
	var stepErr *entity.StepError
	if errors.As(err, &stepErr) {
		return validationError("%s", stepErr.Message)
	}
	return validationError("%s", err.Error())
}

// GetMedicalHistory возвращает отправленную анкету
func (s *OnboardingService) GetMedicalHistory(ctx context.Context, clientID, petID string) (*entity.MedicalHistorySubmission, error) {
	if _, err := s.ownedPet(ctx, clientID, petID); err != nil {
		return nil, err
	}
	return s.repo.GetMedicalHistory(ctx, clientID, petID)
}

// SaveDraft сохраняет промежуточное состояние мастера
func (s *OnboardingService) SaveDraft(ctx context.Context, clientID, petID string, step int, data entity.MedicalHistory) (*entity.IntakeDraft, error) {
	if step < 1 || step > entity.IntakeStepCount {
		return nil, validationError("step must be between 1 and %d", entity.IntakeStepCount)
	}
	if _, err := s.ownedPet(ctx, clientID, petID); err != nil {
		return nil, err
	}
	draft := &entity.IntakeDraft{
		ClientID:  clientID,
		PetID:     petID,
		Step:      step,
		Data:      data,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft возвращает черновик анкеты
func (s *OnboardingService) GetDraft(ctx context.Context, clientID, petID string) (*entity.IntakeDraft, error) {
	if _, err := s.ownedPet(ctx, clientID, petID); err != nil {
		return nil, err
	}
	return s.repo.GetDraft(ctx, clientID, petID)
}
