package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// OnboardingRepo реализует repository.OnboardingRepository
type OnboardingRepo struct {
	store
}

// NewOnboardingRepo создает репозиторий онбординга
func NewOnboardingRepo(client redis.UniversalClient) *OnboardingRepo {
	return &OnboardingRepo{store: newStore(client)}
}

// Create записывает статус через SETNX: существующая запись не перезаписывается
func (r *OnboardingRepo) Create(ctx context.Context, status *entity.OnboardingStatus) (bool, error) {
	data, err := json.Marshal(status)
	if err != nil {
		return false, fmt.Errorf("marshal onboarding: %w", err)
	}
	created, err := r.client.SetNX(ctx, onboardingKey(status.ClientID, status.PetID), data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("create onboarding: %w", err)
	}
	if err := r.client.SAdd(ctx, onboardingClientKey(status.ClientID), status.PetID).Err(); err != nil {
		return created, fmt.Errorf("index onboarding: %w", err)
	}
	return created, nil
}

// Get возвращает статус онбординга пары (клиент, питомец)
func (r *OnboardingRepo) Get(ctx context.Context, clientID, petID string) (*entity.OnboardingStatus, error) {
	var status entity.OnboardingStatus
	if err := r.getJSON(ctx, onboardingKey(clientID, petID), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Update перезаписывает статус
func (r *OnboardingRepo) Update(ctx context.Context, status *entity.OnboardingStatus) error {
	if err := r.setJSON(ctx, onboardingKey(status.ClientID, status.PetID), status, 0); err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, onboardingClientKey(status.ClientID), status.PetID).Err(); err != nil {
		return fmt.Errorf("index onboarding: %w", err)
	}
	return nil
}

// ListByClient возвращает статусы по всем питомцам клиента
func (r *OnboardingRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.OnboardingStatus, error) {
	petIDs, err := r.members(ctx, onboardingClientKey(clientID))
	if err != nil {
		return nil, err
	}
	raw, err := r.getMany(ctx, keysFor(petIDs, func(petID string) string {
		return onboardingKey(clientID, petID)
	}))
	if err != nil {
		return nil, err
	}
	items, err := decodeAll[entity.OnboardingStatus](raw)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

// SaveMedicalHistory сохраняет отправленную анкету
func (r *OnboardingRepo) SaveMedicalHistory(ctx context.Context, submission *entity.MedicalHistorySubmission) error {
	return r.setJSON(ctx, onboardingHistoryKey(submission.ClientID, submission.PetID), submission, 0)
}

// GetMedicalHistory возвращает отправленную анкету
func (r *OnboardingRepo) GetMedicalHistory(ctx context.Context, clientID, petID string) (*entity.MedicalHistorySubmission, error) {
	var submission entity.MedicalHistorySubmission
	if err := r.getJSON(ctx, onboardingHistoryKey(clientID, petID), &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// SaveDraft сохраняет черновик анкеты
func (r *OnboardingRepo) SaveDraft(ctx context.Context, draft *entity.IntakeDraft) error {
	return r.setJSON(ctx, onboardingDraftKey(draft.ClientID, draft.PetID), draft, 0)
}

// GetDraft возвращает черновик анкеты
func (r *OnboardingRepo) GetDraft(ctx context.Context, clientID, petID string) (*entity.IntakeDraft, error) {
	var draft entity.IntakeDraft
	if err := r.getJSON(ctx, onboardingDraftKey(clientID, petID), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// DeleteDraft удаляет черновик
func (r *OnboardingRepo) DeleteDraft(ctx context.Context, clientID, petID string) error {
	if err := r.client.Del(ctx, onboardingDraftKey(clientID, petID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
