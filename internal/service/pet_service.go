package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// PetInput - поля питомца. При обновлении nil-поля не меняются.
type PetInput struct {
	Name        *string
	Species     *string
	Breed       *string
	Sex         *string
	DateOfBirth *string
	WeightKg    *float64
	Microchip   *string
	Status      *string
	Notes       *string
}

// PetService управляет питомцами клиентов
type PetService struct {
	repo       repository.PetRepository
	clients    repository.ClientRepository
	onboarding OnboardingStepMarker
	now        func() time.Time
}

// NewPetService создает сервис питомцев
func NewPetService(repo repository.PetRepository, clients repository.ClientRepository, onboarding OnboardingStepMarker) *PetService {
	return &PetService{repo: repo, clients: clients, onboarding: onboarding, now: time.Now}
}

func isValidSpecies(species string) bool {
	switch species {
	case "dog", "cat", "other":
		return true
	}
	return false
}

func isValidPetStatus(status string) bool {
	switch status {
	case entity.PetStatusActive, entity.PetStatusDeceased, entity.PetStatusTransferred:
		return true
	}
	return false
}

func (s *PetService) apply(pet *entity.Pet, in PetInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return validationError("name is required")
		}
		pet.Name = name
	}
	if in.Species != nil {
		if !isValidSpecies(*in.Species) {
			return validationError("species must be dog, cat or other")
		}
		pet.Species = *in.Species
	}
	if in.Breed != nil {
		pet.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		pet.Sex = *in.Sex
	}
	if in.DateOfBirth != nil {
		if *in.DateOfBirth != "" && !validDate(*in.DateOfBirth) {
			return validationError("date_of_birth must be a YYYY-MM-DD date")
		}
		pet.DateOfBirth = *in.DateOfBirth
	}
	if in.WeightKg != nil {
		if *in.WeightKg < 0 {
			return validationError("weight_kg must not be negative")
		}
		pet.WeightKg = *in.WeightKg
	}
	if in.Microchip != nil {
		pet.Microchip = strings.TrimSpace(*in.Microchip)
	}
	if in.Notes != nil {
		pet.Notes = *in.Notes
	}
	if in.Status != nil {
		if !isValidPetStatus(*in.Status) {
			return validationError("unknown pet status %q", *in.Status)
		}
		if pet.Status != *in.Status {
			pet.Status = *in.Status
			if pet.Status == entity.PetStatusActive {
				pet.ArchivedAt = nil
			} else {
				t := s.now().UTC()
				pet.ArchivedAt = &t
			}
		}
	}
	return nil
}

// Create добавляет питомца клиенту и заводит запись онбординга с этапами account и pet_profile
func (s *PetService) Create(ctx context.Context, clientID string, in PetInput) (*entity.Pet, error) {
	if in.Name == nil || in.Species == nil {
		return nil, validationError("name and species are required")
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	pet := &entity.Pet{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Status:    entity.PetStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(pet, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, pet); err != nil {
		return nil, err
	}

	if s.onboarding != nil {
		if _, err := s.onboarding.UpdateStep(ctx, clientID, pet.ID, entity.OnboardingStepPetProfile, true); err != nil {
			log.Printf("[PetService] failed to create onboarding record for pet %s: %v", pet.ID, err)
		}
	}
	return pet, nil
}

// Get возвращает питомца
func (s *PetService) Get(ctx context.Context, id string) (*entity.Pet, error) {
	return s.repo.GetByID(ctx, id)
}

// GetForClient возвращает питомца, только если он принадлежит клиенту
func (s *PetService) GetForClient(ctx context.Context, clientID, id string) (*entity.Pet, error) {
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet.ClientID != clientID {
		return nil, fmt.Errorf("%w: pet %s", apperrors.ErrNotFound, id)
	}
	return pet, nil
}

// ListByClient возвращает питомцев клиента
func (s *PetService) ListByClient(ctx context.Context, clientID string) ([]*entity.Pet, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Update применяет изменения (админка)
func (s *PetService) Update(ctx context.Context, id string, in PetInput) (*entity.Pet, error) {
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, pet, in)
}

// UpdateForClient применяет изменения клиента к своему питомцу. Статус меняет только клиника.
func (s *PetService) UpdateForClient(ctx context.Context, clientID, id string, in PetInput) (*entity.Pet, error) {
	pet, err := s.GetForClient(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	in.Status = nil
	return s.update(ctx, pet, in)
}

func (s *PetService) update(ctx context.Context, pet *entity.Pet, in PetInput) (*entity.Pet, error) {
	if err := s.apply(pet, in); err != nil {
		return nil, err
	}
	pet.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// Delete удаляет питомца
func (s *PetService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
