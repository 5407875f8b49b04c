package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeHistory возвращает анкету, проходящую все шаги
func completeHistory() MedicalHistory {
	return MedicalHistory{
		PetInfo: PetInfoSection{
			Name: "Luna", Species: "dog", Breed: "Border Collie", Sex: "female", DateOfBirth: "2017-04-12",
		},
		MedicalHistory: MedicalHistorySection{VaccinationStatus: "up_to_date", SpayedNeutered: "yes"},
		CurrentHealth:  CurrentHealthSection{OverallHealth: "good", EnergyLevel: "high"},
		Diet:           DietSection{CurrentFood: "raw", FeedingSchedule: "twice daily"},
		Exercise:       ExerciseSection{Frequency: "daily", Duration: "60 min"},
		Behavior:       BehaviorSection{Temperament: "calm", Socialization: "friendly"},
		Goals:          GoalsSection{PrimaryGoals: []string{"healthy aging"}},
		EmergencyContact: EmergencyContactSection{
			Name: "Sam Lee", Relationship: "partner", Phone: "+44 20 1234 5678",
		},
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+44 20 1234 5678", true},
		{"(555) 123-4567", true},
		{"5551234567", true},
		{"abc", false},
		{"+1 555 1234", false}, // меньше 10 цифр
		{"555-123-4567 ext 9", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.phone))
		})
	}
}

func TestValidateStep4_RequiresDietAndExercise(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *MedicalHistory)
		field  string
	}{
		{"missing current food", func(m *MedicalHistory) { m.Diet.CurrentFood = "" }, "diet.current_food"},
		{"missing feeding schedule", func(m *MedicalHistory) { m.Diet.FeedingSchedule = " " }, "diet.feeding_schedule"},
		{"missing exercise frequency", func(m *MedicalHistory) { m.Exercise.Frequency = "" }, "exercise.frequency"},
		{"missing exercise duration", func(m *MedicalHistory) { m.Exercise.Duration = "" }, "exercise.duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := completeHistory()
			tt.mutate(&m)

			err := m.ValidateStep(4)

			require.Error(t, err)
			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, 4, stepErr.Step)
			assert.Equal(t, tt.field, stepErr.Field)
		})
	}

	t.Run("all four present", func(t *testing.T) {
		m := MedicalHistory{
			Diet:     DietSection{CurrentFood: "kibble", FeedingSchedule: "morning"},
			Exercise: ExerciseSection{Frequency: "daily", Duration: "30 min"},
		}
		assert.NoError(t, m.ValidateStep(4))
	})
}

func TestValidateStep7_EmergencyContact(t *testing.T) {
	m := completeHistory()
	assert.NoError(t, m.ValidateStep(7))

	m.EmergencyContact.Phone = "call me"
	err := m.ValidateStep(7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid phone")

	m = completeHistory()
	m.EmergencyContact.Relationship = ""
	assert.Error(t, m.ValidateStep(7))
}

func TestValidateStep6_IgnoresBlankGoals(t *testing.T) {
	m := completeHistory()
	m.Goals.PrimaryGoals = []string{"", "  "}
	assert.Error(t, m.ValidateStep(6))
}

func TestValidateStep_UnknownStep(t *testing.T) {
	m := completeHistory()
	assert.Error(t, m.ValidateStep(0))
	assert.Error(t, m.ValidateStep(8))
}

func TestIntakeWizard_NextBlockedByValidation(t *testing.T) {
	data := completeHistory()
	data.PetInfo.Breed = ""
	w := NewIntakeWizard(data)

	err := w.Next()

	require.Error(t, err)
	assert.Equal(t, 1, w.Step, "невалидный шаг не должен пропускать вперёд")
	assert.Equal(t, err, w.LastError)

	w.Data.PetInfo.Breed = "Mixed"
	require.NoError(t, w.Next())
	assert.Equal(t, 2, w.Step)
	assert.Nil(t, w.LastError)
}

func TestIntakeWizard_PreviousIsUnconditional(t *testing.T) {
	w := NewIntakeWizard(MedicalHistory{})
	w.Step = 3

	w.Previous()
	assert.Equal(t, 2, w.Step)

	w.Previous()
	w.Previous()
	assert.Equal(t, 1, w.Step, "нельзя уйти раньше первого шага")
}

func TestIntakeWizard_SubmitFlow(t *testing.T) {
	w := NewIntakeWizard(completeHistory())
	for i := 1; i < IntakeStepCount; i++ {
		require.NoError(t, w.Next())
	}
	require.Equal(t, IntakeStepCount, w.Step)

	// Ошибка сохранения: состояние формы сохраняется, можно повторить
	persistErr := errors.New("network down")
	err := w.Submit(func(MedicalHistory) error { return persistErr })
	require.ErrorIs(t, err, persistErr)
	assert.Equal(t, WizardStateEditing, w.State)
	assert.Equal(t, "Luna", w.Data.PetInfo.Name)

	var saved MedicalHistory
	require.NoError(t, w.Submit(func(m MedicalHistory) error { saved = m; return nil }))
	assert.Equal(t, WizardStateSuccess, w.State)
	assert.Equal(t, "Sam Lee", saved.EmergencyContact.Name)

	assert.ErrorIs(t, w.Submit(func(MedicalHistory) error { return nil }), ErrWizardSubmitted)
	assert.ErrorIs(t, w.Next(), ErrWizardSubmitted)
}

func TestIntakeWizard_SubmitRevalidatesFinalStep(t *testing.T) {
	data := completeHistory()
	data.EmergencyContact.Phone = "12"
	w := NewIntakeWizard(data)
	w.Step = IntakeStepCount

	called := false
	err := w.Submit(func(MedicalHistory) error { called = true; return nil })

	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, WizardStateEditing, w.State)
}

func TestIntakeWizard_SubmitOnlyFromFinalStep(t *testing.T) {
	w := NewIntakeWizard(completeHistory())
	assert.Error(t, w.Submit(func(MedicalHistory) error { return nil }))
}

func TestResumeIntakeWizard(t *testing.T) {
	w := ResumeIntakeWizard(&IntakeDraft{Step: 5, Data: completeHistory()})
	assert.Equal(t, 5, w.Step)

	w = ResumeIntakeWizard(&IntakeDraft{Step: 42})
	assert.Equal(t, 1, w.Step)
}
