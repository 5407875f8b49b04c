package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

func newOnboardingFixture(t *testing.T) *OnboardingService {
	t.Helper()
	repos := newTestRepos(t)
	seedPet(t, repos, "p1", "c1")
	seedPet(t, repos, "p2", "c2")
	svc := NewOnboardingService(repos.Onboarding, repos.Pets)
	svc.now = steppingClock(baseTime)
	return svc
}

func TestOnboardingService_CreateIsIdempotent(t *testing.T) {
	svc := newOnboardingFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.True(t, first.IsStepComplete(entity.OnboardingStepAccount))
	assert.Equal(t, entity.OnboardingStepPetProfile, first.NextStep())

	second, err := svc.Create(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "повторный Create возвращает существующую запись")

	statuses, err := svc.ListForClient(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, statuses, 1)
}

func TestOnboardingService_OwnershipChecks(t *testing.T) {
	svc := newOnboardingFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "c1", "p2")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Create(ctx, "c1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Create(ctx, "c1", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOnboardingService_UpdateStep(t *testing.T) {
	svc := newOnboardingFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateStep(ctx, "c1", "p1", "grooming", true)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.UpdateStep(ctx, "c1", "p1", entity.OnboardingStepAccount, false)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// отсутствующая запись создаётся
	status, err := svc.UpdateStep(ctx, "c1", "p1", entity.OnboardingStepAppointment, true)
	require.NoError(t, err)
	assert.True(t, status.IsStepComplete(entity.OnboardingStepAccount))
	assert.True(t, status.IsStepComplete(entity.OnboardingStepAppointment))
	assert.Equal(t, 2, status.Progress())

	for _, step := range []entity.OnboardingStep{
		entity.OnboardingStepPetProfile,
		entity.OnboardingStepMedicalHistory,
		entity.OnboardingStepConsents,
	} {
		status, err = svc.UpdateStep(ctx, "c1", "p1", step, true)
		require.NoError(t, err)
	}
	assert.True(t, status.IsComplete())
	assert.NotNil(t, status.CompletedAt)

	stored, err := svc.Get(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.True(t, stored.IsComplete())
}

func TestOnboardingService_SubmitMedicalHistory(t *testing.T) {
	svc := newOnboardingFixture(t)
	ctx := context.Background()

	_, err := svc.SaveDraft(ctx, "c1", "p1", 3, validMedicalHistory())
	require.NoError(t, err)

	submission, err := svc.SubmitMedicalHistory(ctx, "c1", "p1", validMedicalHistory())
	require.NoError(t, err)
	assert.Equal(t, "Biscuit", submission.Data.PetInfo.Name)

	stored, err := svc.GetMedicalHistory(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Sam Carter", stored.Data.EmergencyContact.Name)

	_, err = svc.GetDraft(ctx, "c1", "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "черновик удаляется после отправки")

	status, err := svc.Get(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.True(t, status.IsStepComplete(entity.OnboardingStepPetProfile))
	assert.True(t, status.IsStepComplete(entity.OnboardingStepMedicalHistory))
}

func TestOnboardingService_SubmitMedicalHistoryRejectsInvalidStep(t *testing.T) {
	svc := newOnboardingFixture(t)
	ctx := context.Background()

	data := validMedicalHistory()
	data.Exercise.Duration = ""
	_, err := svc.SubmitMedicalHistory(ctx, "c1", "p1", data)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "exercise.duration")

	data = validMedicalHistory()
	data.EmergencyContact.Phone = "abc"
	_, err = svc.SubmitMedicalHistory(ctx, "c1", "p1", data)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "emergency_contact.phone")

	_, err = svc.GetMedicalHistory(ctx, "c1", "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOnboardingService_Draft(t *testing.T) {
	svc := newOnboardingFixture(t)
	ctx := context.Background()

	_, err := svc.SaveDraft(ctx, "c1", "p1", 0, entity.MedicalHistory{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	data := entity.MedicalHistory{PetInfo: entity.PetInfoSection{Name: "Biscuit"}}
	_, err = svc.SaveDraft(ctx, "c1", "p1", 2, data)
	require.NoError(t, err)

	draft, err := svc.GetDraft(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, draft.Step)
	assert.Equal(t, "Biscuit", draft.Data.PetInfo.Name)

	_, err = svc.GetDraft(ctx, "c2", "p1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
