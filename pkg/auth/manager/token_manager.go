package manager

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/repository"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth"
)

// Имена cookie сессий
const (
	AdminTokenCookie  = "admin-token"
	ClientTokenCookie = "client-token"
)

// CookieName возвращает имя cookie для роли
func CookieName(role auth.Role) string {
	if role == auth.RoleAdmin {
		return AdminTokenCookie
	}
	return ClientTokenCookie
}

// TokenErrorType определяет тип ошибки токена
type TokenErrorType string

const (
	TokenGenerationFailed TokenErrorType = "TOKEN_GENERATION_FAILED"
	MissingToken          TokenErrorType = "MISSING_TOKEN"
	InvalidToken          TokenErrorType = "INVALID_TOKEN"
	ExpiredToken          TokenErrorType = "EXPIRED_TOKEN"
	TokenRevoked          TokenErrorType = "TOKEN_REVOKED"
	StoreError            TokenErrorType = "STORE_ERROR"
)

// TokenError представляет ошибку при работе с токенами
type TokenError struct {
	Type    TokenErrorType
	Message string
	Err     error
}

// Error возвращает строковое представление ошибки
func (e *TokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *TokenError) Unwrap() error { return e.Err }

// NewTokenError создает новую ошибку токена
func NewTokenError(tokenType TokenErrorType, message string, err error) *TokenError {
	return &TokenError{Type: tokenType, Message: message, Err: err}
}

// Session - выпущенная сессия
type Session struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// TokenManager выдаёт, проверяет и отзывает сессии одной роли.
// Токен действителен, только пока его sid есть в Redis.
type TokenManager struct {
	jwtService *auth.JWTService
	sessions   repository.SessionRepository

	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieSecure   bool
	cookieSameSite http.SameSite
}

// NewTokenManager создает менеджер сессий для роли jwtService
func NewTokenManager(jwtService *auth.JWTService, sessions repository.SessionRepository) (*TokenManager, error) {
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for TokenManager")
	}
	if sessions == nil {
		return nil, fmt.Errorf("SessionRepository is required for TokenManager")
	}
	return &TokenManager{
		jwtService:     jwtService,
		sessions:       sessions,
		cookieName:     CookieName(jwtService.Role()),
		cookiePath:     "/",
		cookieSameSite: http.SameSiteLaxMode,
	}, nil
}

// Role возвращает роль менеджера
func (m *TokenManager) Role() auth.Role { return m.jwtService.Role() }

// CookieName возвращает имя cookie сессии
func (m *TokenManager) CookieName() string { return m.cookieName }

// SetProductionMode включает флаг Secure у cookie
func (m *TokenManager) SetProductionMode(isProduction bool) {
	m.cookieSecure = isProduction
	log.Printf("[TokenManager] %s: production mode %v, cookie Secure %v", m.Role(), isProduction, m.cookieSecure)
}

// SetCookieDomain задаёт домен cookie
func (m *TokenManager) SetCookieDomain(domain string) {
	m.cookieDomain = domain
}

// IssueSession регистрирует новую сессию и выпускает для неё токен
func (m *TokenManager) IssueSession(ctx context.Context, subject, email string) (*Session, error) {
	sid := uuid.NewString()
	token, expiresAt, err := m.jwtService.GenerateToken(subject, email, sid)
	if err != nil {
		return nil, NewTokenError(TokenGenerationFailed, "failed to sign token", err)
	}
	if err := m.sessions.Create(ctx, string(m.Role()), sid, subject, m.jwtService.Expiry()); err != nil {
		return nil, NewTokenError(StoreError, "failed to store session", err)
	}
	return &Session{Token: token, SessionID: sid, ExpiresAt: expiresAt}, nil
}

// ValidateToken проверяет подпись токена и существование сессии
func (m *TokenManager) ValidateToken(ctx context.Context, token string) (*auth.SessionClaims, error) {
	if token == "" {
		return nil, NewTokenError(MissingToken, "no session token", nil)
	}
	claims, err := m.jwtService.ParseToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, NewTokenError(ExpiredToken, "session expired", err)
		}
		return nil, NewTokenError(InvalidToken, "invalid session token", err)
	}

	ok, err := m.sessions.Exists(ctx, string(m.Role()), claims.SessionID)
	if err != nil {
		return nil, NewTokenError(StoreError, "failed to check session", err)
	}
	if !ok {
		return nil, NewTokenError(TokenRevoked, "session revoked", nil)
	}
	return claims, nil
}

// RevokeSession отзывает сессию по sid
func (m *TokenManager) RevokeSession(ctx context.Context, sessionID string) error {
	if err := m.sessions.Delete(ctx, string(m.Role()), sessionID); err != nil {
		return NewTokenError(StoreError, "failed to revoke session", err)
	}
	return nil
}

// RevokeAllSessions отзывает все сессии субъекта, кроме exceptSessionID
func (m *TokenManager) RevokeAllSessions(ctx context.Context, subject, exceptSessionID string) (int, error) {
	n, err := m.sessions.DeleteAllForSubject(ctx, string(m.Role()), subject, exceptSessionID)
	if err != nil {
		return 0, NewTokenError(StoreError, "failed to revoke sessions", err)
	}
	if n > 0 {
		log.Printf("[TokenManager] %s: revoked %d sessions for subject %s", m.Role(), n, subject)
	}
	return n, nil
}

// SetTokenCookie устанавливает токен в HttpOnly cookie
func (m *TokenManager) SetTokenCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    session.Token,
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		Expires:  session.ExpiresAt,
		MaxAge:   int(m.jwtService.Expiry().Seconds()),
		Secure:   m.cookieSecure,
		HttpOnly: true,
		SameSite: m.cookieSameSite,
	})
}

// ClearTokenCookie удаляет cookie сессии
func (m *TokenManager) ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   m.cookieSecure,
		HttpOnly: true,
		SameSite: m.cookieSameSite,
	})
}

// GetTokenFromCookie получает токен из cookie запроса
func (m *TokenManager) GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", NewTokenError(MissingToken, "no session cookie", err)
		}
		return "", err
	}
	return cookie.Value, nil
}
