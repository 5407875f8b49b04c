package repository

import (
	"context"
	"time"
)

// SessionRepository хранит идентификаторы активных сессий.
// Подпись JWT сама по себе не означает действующую сессию: сессия должна существовать в хранилище.
type SessionRepository interface {
	Create(ctx context.Context, role, sessionID, subject string, ttl time.Duration) error
	Exists(ctx context.Context, role, sessionID string) (bool, error)
	Delete(ctx context.Context, role, sessionID string) error
	// DeleteAllForSubject удаляет все сессии пользователя, кроме except (если задан)
	DeleteAllForSubject(ctx context.Context, role, subject, except string) (int, error)
}
