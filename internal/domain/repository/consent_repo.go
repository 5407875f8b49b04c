package repository

import (
	"context"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// ConsentRepository - журнал принятия юридических документов (только добавление)
type ConsentRepository interface {
	// Save сохраняет запись и добавляет её в индекс клиента и, если задан PetID, в индекс питомца
	Save(ctx context.Context, acceptance *entity.ConsentAcceptance) error
	// ListByScope возвращает записи клиента (petID == "") или конкретного питомца
	ListByScope(ctx context.Context, clientID, petID string) ([]*entity.ConsentAcceptance, error)
}
