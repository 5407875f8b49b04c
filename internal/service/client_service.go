package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
)

const (
	generatedPasswordLength   = 14
	generatedPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// SessionRevoker отзывает сессии пользователя. Реализуется manager.TokenManager.
type SessionRevoker interface {
	RevokeAllSessions(ctx context.Context, subject, exceptSessionID string) (int, error)
}

// CreateClientInput - данные нового клиента из админки
type CreateClientInput struct {
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	PreferredLocale string
	Notes           string
	// Password: если пустой, генерируется и отправляется в приветственном письме
	Password string
}

// UpdateClientInput - изменения клиента; nil-поля не трогаются
type UpdateClientInput struct {
	Email           *string
	FirstName       *string
	LastName        *string
	Phone           *string
	PreferredLocale *string
	Status          *string
	Notes           *string
}

// ClientService управляет клиентами портала
type ClientService struct {
	repo     repository.ClientRepository
	pets     repository.PetRepository
	sessions SessionRevoker
	mailer   *Mailer
	runner   Runner
	now      func() time.Time
}

// NewClientService создает сервис клиентов
func NewClientService(
	repo repository.ClientRepository,
	pets repository.PetRepository,
	sessions SessionRevoker,
	mailer *Mailer,
	runner Runner,
) *ClientService {
	return &ClientService{
		repo:     repo,
		pets:     pets,
		sessions: sessions,
		mailer:   mailer,
		runner:   runner,
		now:      time.Now,
	}
}

// GeneratePassword создаёт случайный пароль без похожих символов (0/O, 1/l)
func GeneratePassword() (string, error) {
	limit := big.NewInt(int64(len(generatedPasswordAlphabet)))
	var b strings.Builder
	for i := 0; i < generatedPasswordLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		b.WriteByte(generatedPasswordAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Create создаёт клиента и в фоне отправляет приветственное письмо с данными для входа
func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (*entity.Client, error) {
	email := entity.NormalizeEmail(in.Email)
	if email == "" {
		return nil, validationError("email is required")
	}
	locale := in.PreferredLocale
	if locale == "" {
		locale = entity.DefaultLocale
	}
	if !entity.IsSupportedLocale(locale) {
		return nil, validationError("unsupported locale %q", locale)
	}

	password := in.Password
	if password == "" {
		generated, err := GeneratePassword()
		if err != nil {
			return nil, err
		}
		password = generated
	}
	if len(password) < MinPasswordLength {
		return nil, validationError("password must be at least %d characters", MinPasswordLength)
	}

	now := s.now().UTC()
	client := &entity.Client{
		ID:              uuid.New().String(),
		Email:           email,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Phone:           strings.TrimSpace(in.Phone),
		PreferredLocale: locale,
		Status:          entity.ClientStatusActive,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := client.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	log.Printf("[ClientService] client %s created", client.ID)

	welcome := *client
	s.runner.Go("email.welcome", func(ctx context.Context) error {
		return s.mailer.SendWelcome(ctx, &welcome, password)
	})
	return client, nil
}

// Get возвращает клиента
func (s *ClientService) Get(ctx context.Context, id string) (*entity.Client, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает всех клиентов, новые первыми
func (s *ClientService) List(ctx context.Context) ([]*entity.Client, error) {
	return s.repo.List(ctx)
}

// Update применяет изменения. Деактивация клиента отзывает все его сессии.
func (s *ClientService) Update(ctx context.Context, id string, in UpdateClientInput) (*entity.Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActive := client.Status != entity.ClientStatusInactive

	if in.Email != nil {
		email := entity.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, validationError("email is required")
		}
		client.Email = email
	}
	if in.FirstName != nil {
		client.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		client.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		client.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.PreferredLocale != nil {
		if !entity.IsSupportedLocale(*in.PreferredLocale) {
			return nil, validationError("unsupported locale %q", *in.PreferredLocale)
		}
		client.PreferredLocale = *in.PreferredLocale
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.ClientStatusActive, entity.ClientStatusInactive:
			client.Status = *in.Status
		default:
			return nil, validationError("unknown client status %q", *in.Status)
		}
	}
	if in.Notes != nil {
		client.Notes = *in.Notes
	}
	client.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	if wasActive && client.Status == entity.ClientStatusInactive {
		s.revokeSessions(ctx, client.ID)
	}
	return client, nil
}

// Delete удаляет клиента каскадно и отзывает его сессии
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	log.Printf("[ClientService] client %s deleted", id)
	return nil
}

func (s *ClientService) revokeSessions(ctx context.Context, clientID string) {
	if s.sessions == nil {
		return
	}
	n, err := s.sessions.RevokeAllSessions(ctx, clientID, "")
	if err != nil {
		log.Printf("[ClientService] failed to revoke sessions for client %s: %v", clientID, err)
		return
	}
	if n > 0 {
		log.Printf("[ClientService] revoked %d sessions for client %s", n, clientID)
	}
}

// ListPets возвращает питомцев клиента
func (s *ClientService) ListPets(ctx context.Context, clientID string) ([]*entity.Pet, error) {
	if _, err := s.repo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.pets.ListByClient(ctx, clientID)
}
