package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// ConsentRepo реализует repository.ConsentRepository
type ConsentRepo struct {
	store
}

// NewConsentRepo создает журнал согласий
func NewConsentRepo(client redis.UniversalClient) *ConsentRepo {
	return &ConsentRepo{store: newStore(client)}
}

// Save записывает принятие (или отзыв) и добавляет id в индексы.
// Уникальность не проверяется: повторные записи образуют историю.
func (r *ConsentRepo) Save(ctx context.Context, a *entity.ConsentAcceptance) error {
	if err := r.setJSON(ctx, consentKey(a.ID), a, 0); err != nil {
		return err
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, consentClientKey(a.ClientID), a.ID)
		if a.PetID != "" {
			pipe.SAdd(ctx, consentPetKey(a.ClientID, a.PetID), a.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("index consent %s: %w", a.ID, err)
	}
	return nil
}

// ListByScope возвращает записи клиента (все, включая привязанные к питомцам)
// или только записи конкретного питомца. Порядок не гарантирован.
func (r *ConsentRepo) ListByScope(ctx context.Context, clientID, petID string) ([]*entity.ConsentAcceptance, error) {
	indexKey := consentClientKey(clientID)
	if petID != "" {
		indexKey = consentPetKey(clientID, petID)
	}
	ids, err := r.members(ctx, indexKey)
	if err != nil {
		return nil, err
	}
	raw, err := r.getMany(ctx, keysFor(ids, consentKey))
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.ConsentAcceptance](raw)
}
