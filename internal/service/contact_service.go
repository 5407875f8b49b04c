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
)

// SubmitContactInput - данные формы обратной связи
type SubmitContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	Locale  string
}

// ContactService обрабатывает обращения с сайта
type ContactService struct {
	repo        repository.ContactRepository
	mailer      *Mailer
	conversions ConversionTracker
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewContactService создает сервис обращений
func NewContactService(repo repository.ContactRepository, mailer *Mailer, conversions ConversionTracker, m *metrics.Metrics) *ContactService {
	return &ContactService{
		repo:        repo,
		mailer:      mailer,
		conversions: conversions,
		metrics:     m,
		now:         time.Now,
	}
}

// Submit сохраняет обращение и пересылает его в клинику
func (s *ContactService) Submit(ctx context.Context, in SubmitContactInput) (*entity.ContactSubmission, error) {
	locale := in.Locale
	if !entity.IsSupportedLocale(locale) {
		locale = entity.DefaultLocale
	}
	now := s.now().UTC()
	submission := &entity.ContactSubmission{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     entity.NormalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Locale:    locale,
		Status:    entity.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save contact submission: %w", err)
	}
	s.metrics.IncrementContacts()

	if s.conversions != nil {
		if err := s.conversions.TrackConversion(entity.ConversionContact); err != nil {
			log.Printf("[ContactService] failed to track contact conversion: %v", err)
		}
	}
	if err := s.mailer.SendContactNotification(ctx, submission); err != nil {
		log.Printf("[ContactService] contact notification for %s failed: %v", submission.ID, err)
	}
	return submission, nil
}

// Get возвращает обращение
func (s *ContactService) Get(ctx context.Context, id string) (*entity.ContactSubmission, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает страницу обращений и общее количество
func (s *ContactService) List(ctx context.Context, limit, offset int) ([]*entity.ContactSubmission, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateStatus меняет статус обращения
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (*entity.ContactSubmission, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}

// Reply отправляет ответ автору. Письмо - основной результат операции,
// поэтому при ошибке отправки ответ не сохраняется и ошибка возвращается.
func (s *ContactService) Reply(ctx context.Context, id, message, sentBy string) (*entity.ContactSubmission, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, validationError("message is required")
	}
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reply := entity.ContactReply{Message: message, SentBy: sentBy, SentAt: s.now().UTC()}
	if err := s.mailer.SendContactReply(ctx, submission, reply); err != nil {
		return nil, err
	}
	return s.repo.AddReply(ctx, id, reply)
}

// Delete удаляет обращение
func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
