package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

func TestConsentRepo_ScopesAndRevocation(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewConsentRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.ConsentAcceptance{
		ID: "r1", ClientID: "C", DocumentID: "privacy-policy", AcceptedAt: baseTime,
		Signature: entity.ConsentSignature{Method: entity.SignatureMethodCheckbox, Value: "yes"},
	}))
	require.NoError(t, repo.Save(ctx, &entity.ConsentAcceptance{
		ID: "r2", ClientID: "C", PetID: "P", DocumentID: "veterinary-treatment-consent", AcceptedAt: baseTime,
		Signature: entity.ConsentSignature{Method: entity.SignatureMethodTyped, Value: "Ann Owner"},
	}))
	require.NoError(t, repo.Save(ctx, &entity.ConsentAcceptance{
		ID: "r3", ClientID: "C", DocumentID: "privacy-policy", AcceptedAt: baseTime.Add(time.Hour),
		Signature: entity.ConsentSignature{Method: entity.SignatureMethodSystem, Value: entity.RevokedSignatureValue},
	}))

	clientScope, err := repo.ListByScope(ctx, "C", "")
	require.NoError(t, err)
	assert.Len(t, clientScope, 3)

	petScope, err := repo.ListByScope(ctx, "C", "P")
	require.NoError(t, err)
	require.Len(t, petScope, 1)
	assert.Equal(t, "r2", petScope[0].ID)

	assert.False(t, entity.IsDocumentAccepted(clientScope, "privacy-policy"))
	assert.True(t, entity.IsDocumentAccepted(clientScope, "veterinary-treatment-consent"))
}

func TestSessionRepo(t *testing.T) {
	client, mr := newTestRedis(t)
	repo := NewSessionRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "client", "s1", "C", time.Hour))
	require.NoError(t, repo.Create(ctx, "client", "s2", "C", time.Hour))
	require.NoError(t, repo.Create(ctx, "admin", "s3", "admin@clinic", time.Hour))

	ok, err := repo.Exists(ctx, "client", "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repo.DeleteAllForSubject(ctx, "client", "C", "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, _ = repo.Exists(ctx, "client", "s1")
	assert.False(t, ok)
	ok, _ = repo.Exists(ctx, "client", "s2")
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, "client", "s2"))
	ok, _ = repo.Exists(ctx, "client", "s2")
	assert.False(t, ok)

	mr.FastForward(2 * time.Hour)
	ok, _ = repo.Exists(ctx, "admin", "s3")
	assert.False(t, ok, "сессия истекает вместе с TTL")
}

func TestOnboardingRepo_CreateOnce(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewOnboardingRepo(client)
	ctx := context.Background()

	first := entity.NewOnboardingStatus("C", "P", baseTime)
	created, err := repo.Create(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	first.MarkStep(entity.OnboardingStepPetProfile, true, baseTime.Add(time.Minute))
	require.NoError(t, repo.Update(ctx, first))

	created, err = repo.Create(ctx, entity.NewOnboardingStatus("C", "P", baseTime.Add(time.Hour)))
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.Get(ctx, "C", "P")
	require.NoError(t, err)
	assert.True(t, got.IsStepComplete(entity.OnboardingStepPetProfile), "повторное создание не сбрасывает прогресс")

	list, err := repo.ListByClient(ctx, "C")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.SaveDraft(ctx, &entity.IntakeDraft{ClientID: "C", PetID: "P", Step: 3}))
	draft, err := repo.GetDraft(ctx, "C", "P")
	require.NoError(t, err)
	assert.Equal(t, 3, draft.Step)
	require.NoError(t, repo.DeleteDraft(ctx, "C", "P"))
	_, err = repo.GetDraft(ctx, "C", "P")
	assert.Error(t, err)
}
