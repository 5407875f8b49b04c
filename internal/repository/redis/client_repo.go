package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// ClientRepo реализует repository.ClientRepository
type ClientRepo struct {
	store
}

// NewClientRepo создает репозиторий клиентов
func NewClientRepo(client redis.UniversalClient) *ClientRepo {
	return &ClientRepo{store: newStore(client)}
}

func (r *ClientRepo) save(ctx context.Context, c *entity.Client) error {
	data, err := c.MarshalStorage()
	if err != nil {
		return fmt.Errorf("marshal client %s: %w", c.ID, err)
	}
	if err := r.client.Set(ctx, clientKey(c.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("set client %s: %w", c.ID, err)
	}
	return nil
}

// Create сохраняет клиента. Email должен быть уникален.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	c.Email = entity.NormalizeEmail(c.Email)
	ok, err := r.client.SetNX(ctx, clientEmailKey(c.Email), c.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("reserve client email: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: client with email %s already exists", apperrors.ErrConflict, c.Email)
	}

	if err := r.save(ctx, c); err != nil {
		r.client.Del(ctx, clientEmailKey(c.Email))
		return err
	}
	if err := r.client.SAdd(ctx, keyClients, c.ID).Err(); err != nil {
		return fmt.Errorf("index client %s: %w", c.ID, err)
	}
	return nil
}

// GetByID возвращает клиента по id
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	data, err := r.getBytes(ctx, clientKey(id))
	if err != nil {
		return nil, err
	}
	c, err := entity.UnmarshalClientStorage(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal client %s: %w", id, err)
	}
	return c, nil
}

// GetByEmail ищет клиента через индекс client:email:{email}
func (r *ClientRepo) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	id, err := r.getString(ctx, clientEmailKey(entity.NormalizeEmail(email)))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update перезаписывает клиента и при смене email переносит индекс
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	existing, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}

	c.Email = entity.NormalizeEmail(c.Email)
	if c.Email == existing.Email {
		return r.save(ctx, c)
	}

	ok, err := r.client.SetNX(ctx, clientEmailKey(c.Email), c.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("reserve client email: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: client with email %s already exists", apperrors.ErrConflict, c.Email)
	}
	// Старый email освобождаем только после записи: иначе при ошибке клиент теряет оба индекса
	if err := r.save(ctx, c); err != nil {
		r.client.Del(ctx, clientEmailKey(c.Email))
		return err
	}
	if err := r.client.Del(ctx, clientEmailKey(existing.Email)).Err(); err != nil {
		log.Printf("[ClientRepo] failed to release old email index for client %s: %v", c.ID, err)
	}
	return nil
}

// Delete удаляет клиента и всё, что на него ссылается: питомцев (записи и их индексы
// приёмов), индекс приёмов клиента, записи онбординга и индекс email.
// Записи согласий сохраняются как юридический журнал.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	petIDs, err := r.members(ctx, clientPetsKey(id))
	if err != nil {
		return err
	}
	onboardingPetIDs, err := r.members(ctx, onboardingClientKey(id))
	if err != nil {
		return err
	}

	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, petID := range petIDs {
			delEach(ctx, pipe, petKey(petID), petAppointmentsKey(petID))
		}
		for _, petID := range onboardingPetIDs {
			delEach(ctx, pipe, onboardingKey(id, petID), onboardingHistoryKey(id, petID), onboardingDraftKey(id, petID))
		}
		pipe.Del(ctx, onboardingClientKey(id))
		delEach(ctx, pipe, clientPetsKey(id), clientAppointmentsKey(id))
		pipe.Del(ctx, clientEmailKey(c.Email))
		pipe.Del(ctx, clientKey(id))
		pipe.SRem(ctx, keyClients, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	return nil
}

// List возвращает всех клиентов, новые первыми
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	ids, err := r.members(ctx, keyClients)
	if err != nil {
		return nil, err
	}
	raw, err := r.getMany(ctx, keysFor(ids, clientKey))
	if err != nil {
		return nil, err
	}

	clients := make([]*entity.Client, 0, len(raw))
	for _, data := range raw {
		c, err := entity.UnmarshalClientStorage(data)
		if err != nil {
			return nil, fmt.Errorf("unmarshal client: %w", err)
		}
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].CreatedAt.After(clients[j].CreatedAt)
	})
	return clients, nil
}

// isNotFound - сокращение для проверки ErrNotFound
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
