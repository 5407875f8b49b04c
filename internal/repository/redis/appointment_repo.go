package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// AppointmentRepo реализует repository.AppointmentRepository
type AppointmentRepo struct {
	store
}

// NewAppointmentRepo создает репозиторий записей на приём
func NewAppointmentRepo(client redis.UniversalClient) *AppointmentRepo {
	return &AppointmentRepo{store: newStore(client)}
}

func indexOwner(ctx context.Context, pipe redis.Pipeliner, a *entity.Appointment) {
	if a.ClientID != "" {
		pipe.SAdd(ctx, clientAppointmentsKey(a.ClientID), a.ID)
	}
	if a.PetID != "" {
		pipe.SAdd(ctx, petAppointmentsKey(a.PetID), a.ID)
	}
}

func unindexOwner(ctx context.Context, pipe redis.Pipeliner, a *entity.Appointment) {
	if a.ClientID != "" {
		pipe.SRem(ctx, clientAppointmentsKey(a.ClientID), a.ID)
	}
	if a.PetID != "" {
		pipe.SRem(ctx, petAppointmentsKey(a.PetID), a.ID)
	}
}

// Create сохраняет запись и обновляет индексы
func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	if err := r.setJSON(ctx, appointmentKey(a.ID), a, 0); err != nil {
		return err
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, keyAppointments, &redis.Z{Score: score(a.CreatedAt), Member: a.ID})
		indexOwner(ctx, pipe, a)
		return nil
	})
	if err != nil {
		return fmt.Errorf("index appointment %s: %w", a.ID, err)
	}
	return nil
}

// GetByID возвращает запись по id
func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var a entity.Appointment
	if err := r.getJSON(ctx, appointmentKey(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update перезаписывает запись. Владелец меняется только через AssignOwner.
func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	existing, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	a.ClientID = existing.ClientID
	a.PetID = existing.PetID
	return r.setJSON(ctx, appointmentKey(a.ID), a, 0)
}

// AssignOwner связывает публичную заявку с клиентом и питомцем
func (r *AppointmentRepo) AssignOwner(ctx context.Context, id, clientID, petID string) (*entity.Appointment, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := *a
	a.ClientID = clientID
	a.PetID = petID
	if err := r.setJSON(ctx, appointmentKey(id), a, 0); err != nil {
		return nil, err
	}

	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		unindexOwner(ctx, pipe, &previous)
		indexOwner(ctx, pipe, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reindex appointment %s: %w", id, err)
	}
	return a, nil
}

// Delete удаляет запись и убирает её из всех индексов
func (r *AppointmentRepo) Delete(ctx context.Context, id string) error {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, appointmentKey(id))
		pipe.ZRem(ctx, keyAppointments, id)
		unindexOwner(ctx, pipe, a)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete appointment %s: %w", id, err)
	}
	return nil
}

// List возвращает страницу записей от новых к старым и общее количество.
// limit <= 0 - без ограничения.
func (r *AppointmentRepo) List(ctx context.Context, limit, offset int) ([]*entity.Appointment, int64, error) {
	ids, total, err := r.pageByScore(ctx, keyAppointments, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	raw, err := r.getMany(ctx, keysFor(ids, appointmentKey))
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeAll[entity.Appointment](raw)
	return items, total, err
}

// ListByClient возвращает записи клиента, новые первыми
func (r *AppointmentRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Appointment, error) {
	return r.listBySet(ctx, clientAppointmentsKey(clientID))
}

// ListByPet возвращает записи питомца, новые первыми
func (r *AppointmentRepo) ListByPet(ctx context.Context, petID string) ([]*entity.Appointment, error) {
	return r.listBySet(ctx, petAppointmentsKey(petID))
}

func (r *AppointmentRepo) listBySet(ctx context.Context, key string) ([]*entity.Appointment, error) {
	ids, err := r.members(ctx, key)
	if err != nil {
		return nil, err
	}
	raw, err := r.getMany(ctx, keysFor(ids, appointmentKey))
	if err != nil {
		return nil, err
	}
	items, err := decodeAll[entity.Appointment](raw)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
