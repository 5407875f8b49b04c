package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// ContactRepo реализует repository.ContactRepository
type ContactRepo struct {
	store
	now func() time.Time
}

// NewContactRepo создает репозиторий обращений
func NewContactRepo(client redis.UniversalClient) *ContactRepo {
	return &ContactRepo{store: newStore(client), now: time.Now}
}

// Create сохраняет обращение
func (r *ContactRepo) Create(ctx context.Context, s *entity.ContactSubmission) error {
	if err := r.setJSON(ctx, contactKey(s.ID), s, 0); err != nil {
		return err
	}
	if err := r.client.ZAdd(ctx, keyContacts, &redis.Z{Score: score(s.CreatedAt), Member: s.ID}).Err(); err != nil {
		return fmt.Errorf("index contact %s: %w", s.ID, err)
	}
	return nil
}

// GetByID возвращает обращение по id
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.ContactSubmission, error) {
	var s entity.ContactSubmission
	if err := r.getJSON(ctx, contactKey(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update перезаписывает обращение
func (r *ContactRepo) Update(ctx context.Context, s *entity.ContactSubmission) error {
	if _, err := r.GetByID(ctx, s.ID); err != nil {
		return err
	}
	return r.setJSON(ctx, contactKey(s.ID), s, 0)
}

// UpdateStatus меняет статус обращения
func (r *ContactRepo) UpdateStatus(ctx context.Context, id, status string) (*entity.ContactSubmission, error) {
	if !entity.IsValidContactStatus(status) {
		return nil, fmt.Errorf("%w: unknown contact status %q", apperrors.ErrValidation, status)
	}
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Status = status
	s.UpdatedAt = r.now()
	if err := r.setJSON(ctx, contactKey(id), s, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// AddReply добавляет ответ и помечает обращение как replied
func (r *ContactRepo) AddReply(ctx context.Context, id string, reply entity.ContactReply) (*entity.ContactSubmission, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Replies = append(s.Replies, reply)
	s.Status = entity.ContactStatusReplied
	s.UpdatedAt = reply.SentAt
	if err := r.setJSON(ctx, contactKey(id), s, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete удаляет обращение
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, contactKey(id))
		pipe.ZRem(ctx, keyContacts, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	return nil
}

// List возвращает страницу обращений от новых к старым
func (r *ContactRepo) List(ctx context.Context, limit, offset int) ([]*entity.ContactSubmission, int64, error) {
	ids, total, err := r.pageByScore(ctx, keyContacts, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	raw, err := r.getMany(ctx, keysFor(ids, contactKey))
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeAll[entity.ContactSubmission](raw)
	return items, total, err
}
