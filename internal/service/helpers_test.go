package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
	redisrepo "github.com/199-biotechnologies/continuum-clinic-sub000/internal/repository/redis"
)

var baseTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// newTestRepos поднимает miniredis и все репозитории поверх него
func newTestRepos(t *testing.T) *redisrepo.Repositories {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { client.Close() })

	repos, err := redisrepo.NewRepositories(client)
	require.NoError(t, err)
	return repos
}

// steppingClock возвращает часы, которые сдвигаются на секунду при каждом вызове
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func seedPet(t *testing.T, repos *redisrepo.Repositories, id, clientID string) *entity.Pet {
	t.Helper()
	pet := &entity.Pet{
		ID:        id,
		ClientID:  clientID,
		Name:      "Biscuit",
		Species:   "dog",
		Status:    entity.PetStatusActive,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
	require.NoError(t, repos.Pets.Create(context.Background(), pet))
	return pet
}

func validMedicalHistory() entity.MedicalHistory {
	return entity.MedicalHistory{
		PetInfo: entity.PetInfoSection{
			Name: "Biscuit", Species: "dog", Breed: "Labrador", Sex: "male", DateOfBirth: "2016-05-04",
		},
		MedicalHistory: entity.MedicalHistorySection{VaccinationStatus: "up_to_date", SpayedNeutered: "yes"},
		CurrentHealth:  entity.CurrentHealthSection{OverallHealth: "good", EnergyLevel: "moderate"},
		Diet:           entity.DietSection{CurrentFood: "kibble", FeedingSchedule: "twice daily"},
		Exercise:       entity.ExerciseSection{Frequency: "daily", Duration: "30-60min"},
		Behavior:       entity.BehaviorSection{Temperament: "calm", Socialization: "friendly"},
		Goals:          entity.GoalsSection{PrimaryGoals: []string{"longevity"}},
		EmergencyContact: entity.EmergencyContactSection{
			Name: "Sam Carter", Relationship: "partner", Phone: "+44 20 1234 5678",
		},
	}
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, msg *EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func sentTo(address string) interface{} {
	return mock.MatchedBy(func(msg *EmailMessage) bool {
		return len(msg.To) == 1 && msg.To[0] == address
	})
}

// recordingTracker запоминает учтённые конверсии
type recordingTracker struct {
	kinds []string
}

func (r *recordingTracker) TrackConversion(kind string) error {
	r.kinds = append(r.kinds, kind)
	return nil
}
