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
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/metrics"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// ConversionTracker учитывает конверсии. Реализуется AnalyticsService.
type ConversionTracker interface {
	TrackConversion(kind string) error
}

// CreateAppointmentInput - заявка на приём с сайта или из портала
type CreateAppointmentInput struct {
	// ClientID берётся из клиентской сессии, для публичной заявки пустой
	ClientID      string
	PetID         string
	Name          string
	Email         string
	Phone         string
	PetName       string
	PetSpecies    string
	Service       string
	PreferredDate string
	PreferredTime string
	Message       string
	Locale        string
}

// UpdateAppointmentInput - изменения записи из админки
type UpdateAppointmentInput struct {
	Status        *string
	AdminNotes    *string
	PreferredDate *string
	PreferredTime *string
}

// AppointmentService управляет записями на приём
type AppointmentService struct {
	repo        repository.AppointmentRepository
	pets        repository.PetRepository
	mailer      *Mailer
	conversions ConversionTracker
	onboarding  OnboardingStepMarker
	runner      Runner
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewAppointmentService создает сервис записей на приём
func NewAppointmentService(
	repo repository.AppointmentRepository,
	pets repository.PetRepository,
	mailer *Mailer,
	conversions ConversionTracker,
	onboarding OnboardingStepMarker,
	runner Runner,
	m *metrics.Metrics,
) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		pets:        pets,
		mailer:      mailer,
		conversions: conversions,
		onboarding:  onboarding,
		runner:      runner,
		metrics:     m,
		now:         time.Now,
	}
}

func (s *AppointmentService) ownedPet(ctx context.Context, clientID, petID string) (*entity.Pet, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.ClientID != clientID {
		return nil, fmt.Errorf("%w: pet %s does not belong to client", apperrors.ErrForbidden, petID)
	}
	return pet, nil
}

func validDate(value string) bool {
	_, err := time.Parse(entity.DateLayout, value)
	return err == nil
}

// Create сохраняет заявку. Уведомление клинике уходит синхронно, подтверждение клиенту - в фоне.
// Ошибки писем не влияют на результат: запись уже сохранена.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*entity.Appointment, error) {
	if !validDate(in.PreferredDate) {
		return nil, validationError("preferred_date must be a YYYY-MM-DD date")
	}
	locale := in.Locale
	if !entity.IsSupportedLocale(locale) {
		locale = entity.DefaultLocale
	}

	now := s.now().UTC()
	appointment := &entity.Appointment{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Email:         entity.NormalizeEmail(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		PetName:       strings.TrimSpace(in.PetName),
		PetSpecies:    in.PetSpecies,
		Service:       in.Service,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Message:       strings.TrimSpace(in.Message),
		Locale:        locale,
		Status:        entity.AppointmentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Без сессии petId игнорируется: связать заявку с питомцем может только владелец или администратор
	if in.ClientID != "" {
		if in.PetID == "" {
			return nil, validationError("pet_id is required")
		}
		pet, err := s.ownedPet(ctx, in.ClientID, in.PetID)
		if err != nil {
			return nil, err
		}
		appointment.ClientID = in.ClientID
		appointment.PetID = pet.ID
		if appointment.PetName == "" {
			appointment.PetName = pet.Name
		}
		if appointment.PetSpecies == "" {
			appointment.PetSpecies = pet.Species
		}
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}
	s.metrics.IncrementBookings()
	log.Printf("[AppointmentService] appointment %s created (client=%q)", appointment.ID, appointment.ClientID)

	if s.conversions != nil {
		if err := s.conversions.TrackConversion(entity.ConversionBooking); err != nil {
			log.Printf("[AppointmentService] failed to track booking conversion: %v", err)
		}
	}
	if err := s.mailer.SendBookingNotification(ctx, appointment); err != nil {
		log.Printf("[AppointmentService] booking notification for %s failed: %v", appointment.ID, err)
	}
	confirmation := *appointment
	s.runner.Go("email.booking_confirmation", func(ctx context.Context) error {
		return s.mailer.SendBookingConfirmation(ctx, &confirmation)
	})

	if appointment.HasOwner() {
		s.markAppointmentStep(ctx, appointment)
	}
	return appointment, nil
}

func (s *AppointmentService) markAppointmentStep(ctx context.Context, a *entity.Appointment) {
	if s.onboarding == nil {
		return
	}
	if _, err := s.onboarding.UpdateStep(ctx, a.ClientID, a.PetID, entity.OnboardingStepAppointment, true); err != nil {
		log.Printf("[AppointmentService] failed to mark onboarding appointment step for %s: %v", a.ID, err)
	}
}

// Get возвращает запись по id
func (s *AppointmentService) Get(ctx context.Context, id string) (*entity.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает страницу записей (от новых к старым) и общее количество
func (s *AppointmentService) List(ctx context.Context, limit, offset int) ([]*entity.Appointment, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListForClient возвращает записи клиента
func (s *AppointmentService) ListForClient(ctx context.Context, clientID string) ([]*entity.Appointment, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListForPet возвращает записи питомца клиента
func (s *AppointmentService) ListForPet(ctx context.Context, clientID, petID string) ([]*entity.Appointment, error) {
	if _, err := s.ownedPet(ctx, clientID, petID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID)
}

// GetForClient возвращает запись, только если она принадлежит клиенту
func (s *AppointmentService) GetForClient(ctx context.Context, clientID, id string) (*entity.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ClientID != clientID {
		// чужая запись неотличима от отсутствующей
		return nil, fmt.Errorf("%w: appointment %s", apperrors.ErrNotFound, id)
	}
	return a, nil
}

// Update применяет изменения из админки
func (s *AppointmentService) Update(ctx context.Context, id string, in UpdateAppointmentInput) (*entity.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		if !entity.IsValidAppointmentStatus(*in.Status) {
			return nil, validationError("unknown appointment status %q", *in.Status)
		}
		a.Status = *in.Status
	}
	if in.PreferredDate != nil {
		if !validDate(*in.PreferredDate) {
			return nil, validationError("preferred_date must be a YYYY-MM-DD date")
		}
		a.PreferredDate = *in.PreferredDate
	}
	if in.PreferredTime != nil {
		a.PreferredTime = *in.PreferredTime
	}
	if in.AdminNotes != nil {
		a.AdminNotes = *in.AdminNotes
	}
	a.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AssignOwner связывает публичную заявку с клиентом и его питомцем
func (s *AppointmentService) AssignOwner(ctx context.Context, id, clientID, petID string) (*entity.Appointment, error) {
	if clientID == "" || petID == "" {
		return nil, validationError("clientId and petId are required")
	}
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.ClientID != clientID {
		return nil, validationError("pet %s does not belong to client %s", petID, clientID)
	}
	a, err := s.repo.AssignOwner(ctx, id, clientID, petID)
	if err != nil {
		return nil, err
	}
	s.markAppointmentStep(ctx, a)
	return a, nil
}

// Delete удаляет запись и её индексы
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
