package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// PetRepo реализует repository.PetRepository
type PetRepo struct {
	store
}

// NewPetRepo создает репозиторий питомцев
func NewPetRepo(client redis.UniversalClient) *PetRepo {
	return &PetRepo{store: newStore(client)}
}

// Create сохраняет питомца и добавляет его в индекс клиента
func (r *PetRepo) Create(ctx context.Context, pet *entity.Pet) error {
	if pet.ClientID == "" {
		return fmt.Errorf("%w: pet must belong to a client", apperrors.ErrValidation)
	}
	if err := r.setJSON(ctx, petKey(pet.ID), pet, 0); err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, clientPetsKey(pet.ClientID), pet.ID).Err(); err != nil {
		return fmt.Errorf("index pet %s: %w", pet.ID, err)
	}
	return nil
}

// GetByID возвращает питомца по id
func (r *PetRepo) GetByID(ctx context.Context, id string) (*entity.Pet, error) {
	var pet entity.Pet
	if err := r.getJSON(ctx, petKey(id), &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

// Update перезаписывает питомца. Владелец питомца не меняется.
func (r *PetRepo) Update(ctx context.Context, pet *entity.Pet) error {
	existing, err := r.GetByID(ctx, pet.ID)
	if err != nil {
		return err
	}
	if existing.ClientID != pet.ClientID {
		return fmt.Errorf("%w: pet owner cannot be changed", apperrors.ErrValidation)
	}
	return r.setJSON(ctx, petKey(pet.ID), pet, 0)
}

// Delete удаляет питомца, его индекс приёмов и записи онбординга
func (r *PetRepo) Delete(ctx context.Context, id string) error {
	pet, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		delEach(ctx, pipe, petKey(id), petAppointmentsKey(id))
		pipe.SRem(ctx, clientPetsKey(pet.ClientID), id)
		delEach(ctx, pipe,
			onboardingKey(pet.ClientID, id),
			onboardingHistoryKey(pet.ClientID, id),
			onboardingDraftKey(pet.ClientID, id),
		)
		pipe.SRem(ctx, onboardingClientKey(pet.ClientID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete pet %s: %w", id, err)
	}
	return nil
}

// ListByClient возвращает питомцев клиента в порядке создания
func (r *PetRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Pet, error) {
	ids, err := r.members(ctx, clientPetsKey(clientID))
	if err != nil {
		return nil, err
	}
	raw, err := r.getMany(ctx, keysFor(ids, petKey))
	if err != nil {
		return nil, err
	}
	pets, err := decodeAll[entity.Pet](raw)
	if err != nil {
		return nil, err
	}
	sort.Slice(pets, func(i, j int) bool {
		return pets[i].CreatedAt.Before(pets[j].CreatedAt)
	})
	return pets, nil
}
