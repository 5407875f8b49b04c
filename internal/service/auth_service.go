package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth/manager"
)

// MinPasswordLength - минимальная длина пароля клиента
const MinPasswordLength = 8

// AuthService предоставляет вход и выход для администраторов и клиентов
type AuthService struct {
	admins       repository.AdminRepository
	clients      repository.ClientRepository
	adminTokens  *manager.TokenManager
	clientTokens *manager.TokenManager
	now          func() time.Time
}

// NewAuthService создает сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	admins repository.AdminRepository,
	clients repository.ClientRepository,
	adminTokens *manager.TokenManager,
	clientTokens *manager.TokenManager,
) (*AuthService, error) {
	if admins == nil {
		return nil, fmt.Errorf("AdminRepository is required for AuthService")
	}
	if clients == nil {
		return nil, fmt.Errorf("ClientRepository is required for AuthService")
	}
	if adminTokens == nil || clientTokens == nil {
		return nil, fmt.Errorf("TokenManagers are required for AuthService")
	}
	return &AuthService{
		admins:       admins,
		clients:      clients,
		adminTokens:  adminTokens,
		clientTokens: clientTokens,
		now:          time.Now,
	}, nil
}

// AdminTokens возвращает менеджер сессий администраторов
func (s *AuthService) AdminTokens() *manager.TokenManager { return s.adminTokens }

// ClientTokens возвращает менеджер сессий клиентов
func (s *AuthService) ClientTokens() *manager.TokenManager { return s.clientTokens }

// GetAdmin возвращает администратора по email из сессии
func (s *AuthService) GetAdmin(ctx context.Context, email string) (*entity.AdminUser, error) {
	return s.admins.GetByEmail(ctx, email)
}

// AdminLogin проверяет учётные данные администратора и открывает сессию
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*entity.AdminUser, *manager.Session, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if !admin.CheckPassword(password) {
		log.Printf("[AuthService] failed admin login for %s", admin.Email)
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.adminTokens.IssueSession(ctx, admin.Email, admin.Email)
	if err != nil {
		return nil, nil, err
	}
	return admin, session, nil
}

// ClientLogin проверяет учётные данные клиента и открывает сессию
func (s *AuthService) ClientLogin(ctx context.Context, email, password string) (*entity.Client, *manager.Session, error) {
	client, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to load client: %w", err)
	}
	if !client.CheckPassword(password) {
		log.Printf("[AuthService] failed client login for %s", client.ID)
		return nil, nil, ErrInvalidCredentials
	}
	if client.Status == entity.ClientStatusInactive {
		return nil, nil, ErrInactiveAccount
	}

	session, err := s.clientTokens.IssueSession(ctx, client.ID, client.Email)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	client.LastLoginAt = &now
	if err := s.clients.Update(ctx, client); err != nil {
		// Сессия уже выдана, время входа не критично
		log.Printf("[AuthService] failed to record last login for %s: %v", client.ID, err)
	}
	return client, session, nil
}

// Logout отзывает сессию соответствующей роли
func (s *AuthService) Logout(ctx context.Context, tokens *manager.TokenManager, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return tokens.RevokeSession(ctx, sessionID)
}

// ChangeClientPassword меняет пароль и отзывает остальные сессии клиента
func (s *AuthService) ChangeClientPassword(ctx context.Context, clientID, currentSessionID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return validationError("password must be at least %d characters", MinPasswordLength)
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if !client.CheckPassword(currentPassword) {
		return ErrInvalidCredentials
	}
	if err := client.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	client.UpdatedAt = s.now()
	if err := s.clients.Update(ctx, client); err != nil {
		return err
	}
	if _, err := s.clientTokens.RevokeAllSessions(ctx, clientID, currentSessionID); err != nil {
		log.Printf("[AuthService] password changed for %s but other sessions were not revoked: %v", clientID, err)
	}
	return nil
}

// SeedAdmin создаёт администратора из конфигурации, если его ещё нет
func (s *AuthService) SeedAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		log.Printf("[AuthService] ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check admin: %w", err)
	}

	admin := &entity.AdminUser{
		ID:        uuid.NewString(),
		Email:     entity.NormalizeEmail(email),
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := s.admins.Save(ctx, admin); err != nil {
		return err
	}
	log.Printf("[AuthService] bootstrap admin %s created", admin.Email)
	return nil
}
