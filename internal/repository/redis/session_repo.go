package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRepo реализует repository.SessionRepository
type SessionRepo struct {
	store
}

// NewSessionRepo создает хранилище сессий
func NewSessionRepo(client redis.UniversalClient) *SessionRepo {
	return &SessionRepo{store: newStore(client)}
}

// Create регистрирует сессию с TTL, равным сроку жизни токена
func (r *SessionRepo) Create(ctx context.Context, role, sessionID, subject string, ttl time.Duration) error {
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(role, sessionID), subject, ttl)
		pipe.SAdd(ctx, sessionSubjectKey(role, subject), sessionID)
		pipe.Expire(ctx, sessionSubjectKey(role, subject), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Exists проверяет, что сессия не отозвана и не истекла
func (r *SessionRepo) Exists(ctx context.Context, role, sessionID string) (bool, error) {
	return r.exists(ctx, sessionKey(role, sessionID))
}

// Delete отзывает одну сессию
func (r *SessionRepo) Delete(ctx context.Context, role, sessionID string) error {
	subject, err := r.client.Get(ctx, sessionKey(role, sessionID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("get session: %w", err)
	}
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(role, sessionID))
		if subject != "" {
			pipe.SRem(ctx, sessionSubjectKey(role, subject), sessionID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteAllForSubject отзывает все сессии пользователя, кроме except
func (r *SessionRepo) DeleteAllForSubject(ctx context.Context, role, subject, except string) (int, error) {
	sids, err := r.members(ctx, sessionSubjectKey(role, subject))
	if err != nil {
		return 0, err
	}
	removed := 0
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, sid := range sids {
			if sid == except {
				continue
			}
			pipe.Del(ctx, sessionKey(role, sid))
			pipe.SRem(ctx, sessionSubjectKey(role, subject), sid)
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	return removed, nil
}
