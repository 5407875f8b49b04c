package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

func TestReconciler_RemovesDanglingEntries(t *testing.T) {
	client, mr := newTestRedis(t)
	ctx := context.Background()
	clients := NewClientRepo(client)
	pets := NewPetRepo(client)
	appointments := NewAppointmentRepo(client)

	require.NoError(t, clients.Create(ctx, &entity.Client{ID: "C", Email: "c@example.com"}))
	require.NoError(t, pets.Create(ctx, &entity.Pet{ID: "P1", ClientID: "C"}))
	require.NoError(t, appointments.Create(ctx, &entity.Appointment{ID: "A1", ClientID: "C", PetID: "P1", CreatedAt: baseTime}))

	// Имитируем прерванное удаление: основные записи исчезли, индексы остались
	mr.Del(petKey("P1"))
	mr.Del(appointmentKey("A1"))
	_, err := mr.SetAdd(keyClients, "ghost")
	require.NoError(t, err)
	require.NoError(t, mr.Set(clientEmailKey("ghost@example.com"), "ghost"))

	report, err := NewReconciler(client).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Removed["clients"])
	assert.Equal(t, 1, report.Removed["client_pets"])
	assert.Equal(t, 1, report.Removed["client_appointments"])
	assert.Equal(t, 1, report.Removed["pet_appointments"])
	assert.Equal(t, 1, report.Removed["appointments"])
	assert.Equal(t, 1, report.Removed["client_emails"])

	// Живые записи не тронуты
	_, err = clients.GetByEmail(ctx, "c@example.com")
	require.NoError(t, err)

	again, err := NewReconciler(client).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.TotalRemoved())
}
