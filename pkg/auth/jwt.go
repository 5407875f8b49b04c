package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Issuer - значение iss во всех токенах сервиса
const Issuer = "continuum-clinic"

// Role - тип сессии. Админ и клиент подписываются разными секретами.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Ошибки проверки токена
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrWrongRole      = errors.New("token role mismatch")
)

// SessionClaims содержит поля сессионного токена
type SessionClaims struct {
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// JWTService подписывает и проверяет токены одной роли
type JWTService struct {
	role   Role
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTService создает сервис JWT для роли
func NewJWTService(role Role, secret string, expiry time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required for %s sessions", role)
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("JWT expiry must be positive for %s sessions", role)
	}
	return &JWTService{role: role, secret: []byte(secret), expiry: expiry, now: time.Now}, nil
}

// Role возвращает роль, для которой выпускаются токены
func (s *JWTService) Role() Role { return s.role }

// Expiry возвращает срок жизни токена
func (s *JWTService) Expiry() time.Duration { return s.expiry }

// GenerateToken выпускает HS256 токен для субъекта и идентификатора сессии
func (s *JWTService) GenerateToken(subject, email, sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)
	claims := &SessionClaims{
		Email:     email,
		Role:      s.role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", s.role, err)
	}
	return signed, expiresAt, nil
}

// ParseToken проверяет подпись, алгоритм, срок действия, издателя и роль
func (s *JWTService) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc)
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			}
		}
		log.Printf("[JWT] %s token rejected: %v", s.role, err)
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if !claims.VerifyIssuer(Issuer, true) {
		return nil, ErrTokenInvalid
	}
	if claims.Role != s.role {
		return nil, ErrWrongRole
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
