package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
	redisrepo "github.com/199-biotechnologies/continuum-clinic-sub000/internal/repository/redis"
)

// MockSessionRevoker реализует SessionRevoker
type MockSessionRevoker struct {
	mock.Mock
}

func (m *MockSessionRevoker) RevokeAllSessions(ctx context.Context, subject, exceptSessionID string) (int, error) {
	args := m.Called(ctx, subject, exceptSessionID)
	return args.Int(0), args.Error(1)
}

func newClientFixture(t *testing.T) (*ClientService, *MockEmailService, *MockSessionRevoker, *redisrepo.Repositories) {
	t.Helper()
	repos := newTestRepos(t)
	email := new(MockEmailService)
	sessions := new(MockSessionRevoker)
	mailer := NewMailer(email, "clinic@continuum.example", "https://continuum.example", nil)
	svc := NewClientService(repos.Clients, repos.Pets, sessions, mailer, InlineRunner{})
	svc.now = steppingClock(baseTime)
	return svc, email, sessions, repos
}

func TestGeneratePassword(t *testing.T) {
	first, err := GeneratePassword()
	require.NoError(t, err)
	second, err := GeneratePassword()
	require.NoError(t, err)

	assert.Len(t, first, generatedPasswordLength)
	assert.NotEqual(t, first, second)
	for _, r := range first {
		assert.True(t, strings.ContainsRune(generatedPasswordAlphabet, r))
	}
}

func TestClientService_CreateSendsGeneratedPassword(t *testing.T) {
	svc, email, _, _ := newClientFixture(t)
	ctx := context.Background()

	var welcome *EmailMessage
	email.On("Send", mock.Anything, sentTo("sam@example.com")).
		Run(func(args mock.Arguments) { welcome = args.Get(1).(*EmailMessage) }).
		Return(nil).Once()

	client, err := svc.Create(ctx, CreateClientInput{Email: " Sam@Example.com ", FirstName: "Sam", PreferredLocale: "es"})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", client.Email)
	assert.Equal(t, entity.ClientStatusActive, client.Status)
	email.AssertExpectations(t)

	require.NotNil(t, welcome)
	const marker = "Temporary password: "
	idx := strings.Index(welcome.HTML, marker)
	require.GreaterOrEqual(t, idx, 0)
	password := welcome.HTML[idx+len(marker) : idx+len(marker)+generatedPasswordLength]

	stored, err := svc.Get(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword(password), "письмо содержит действующий пароль")
	assert.Contains(t, welcome.HTML, "/es/portal/login")
}

func TestClientService_CreateValidation(t *testing.T) {
	svc, email, _, _ := newClientFixture(t)
	ctx := context.Background()
	email.On("Send", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(ctx, CreateClientInput{Email: ""})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, CreateClientInput{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, CreateClientInput{Email: "a@example.com", PreferredLocale: "de"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, CreateClientInput{Email: "a@example.com", Password: "long-enough"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateClientInput{Email: "A@example.com", Password: "long-enough"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestClientService_DeactivateRevokesSessions(t *testing.T) {
	svc, email, sessions, _ := newClientFixture(t)
	ctx := context.Background()
	email.On("Send", mock.Anything, mock.Anything).Return(nil)

	client, err := svc.Create(ctx, CreateClientInput{Email: "sam@example.com", Password: "long-enough"})
	require.NoError(t, err)

	sessions.On("RevokeAllSessions", mock.Anything, client.ID, "").Return(2, nil).Once()

	inactive := entity.ClientStatusInactive
	updated, err := svc.Update(ctx, client.ID, UpdateClientInput{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, entity.ClientStatusInactive, updated.Status)

	// повторная деактивация не отзывает сессии ещё раз
	phone := "+44 20 1234 5678"
	_, err = svc.Update(ctx, client.ID, UpdateClientInput{Status: &inactive, Phone: &phone})
	require.NoError(t, err)

	sessions.AssertExpectations(t)
}

func TestClientService_DeleteCascadesAndRevokes(t *testing.T) {
	svc, email, sessions, repos := newClientFixture(t)
	ctx := context.Background()
	email.On("Send", mock.Anything, mock.Anything).Return(nil)

	client, err := svc.Create(ctx, CreateClientInput{Email: "sam@example.com", Password: "long-enough"})
	require.NoError(t, err)
	seedPet(t, repos, "p1", client.ID)
	seedPet(t, repos, "p2", client.ID)

	pets, err := svc.ListPets(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, pets, 2)

	sessions.On("RevokeAllSessions", mock.Anything, client.ID, "").Return(1, nil).Once()
	require.NoError(t, svc.Delete(ctx, client.ID))
	sessions.AssertExpectations(t)

	_, err = svc.Get(ctx, client.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	for _, id := range []string{"p1", "p2"} {
		_, err = repos.Pets.GetByID(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}
	left, err := repos.Pets.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}
