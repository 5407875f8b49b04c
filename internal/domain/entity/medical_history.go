package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// IntakeStepCount - количество шагов анкеты медицинского анамнеза
const IntakeStepCount = 7

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

// ValidatePhone проверяет формат телефона: допустимые символы и не меньше 10 цифр
func ValidatePhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

// MedicalHistory - полная анкета, заполняемая клиентом в портале
type MedicalHistory struct {
	PetInfo          PetInfoSection          `json:"pet_info"`
	MedicalHistory   MedicalHistorySection   `json:"medical_history"`
	CurrentHealth    CurrentHealthSection    `json:"current_health"`
	Diet             DietSection             `json:"diet"`
	Exercise         ExerciseSection         `json:"exercise"`
	Behavior         BehaviorSection         `json:"behavior"`
	Goals            GoalsSection            `json:"goals"`
	EmergencyContact EmergencyContactSection `json:"emergency_contact"`
}

// PetInfoSection - шаг 1
type PetInfoSection struct {
	Name        string  `json:"name"`
	Species     string  `json:"species"`
	Breed       string  `json:"breed"`
	Sex         string  `json:"sex"`
	DateOfBirth string  `json:"date_of_birth"`
	WeightKg    float64 `json:"weight_kg,omitempty"`
	Microchip   string  `json:"microchip,omitempty"`
}

// MedicalHistorySection - шаг 2
type MedicalHistorySection struct {
	VaccinationStatus string   `json:"vaccination_status"`
	SpayedNeutered    string   `json:"spayed_neutered"`
	PreviousVet       string   `json:"previous_vet,omitempty"`
	PastSurgeries     []string `json:"past_surgeries,omitempty"`
	ChronicConditions []string `json:"chronic_conditions,omitempty"`
}

// CurrentHealthSection - шаг 3
type CurrentHealthSection struct {
	OverallHealth string   `json:"overall_health"`
	EnergyLevel   string   `json:"energy_level"`
	Medications   []string `json:"medications,omitempty"`
	Allergies     []string `json:"allergies,omitempty"`
	Concerns      string   `json:"concerns,omitempty"`
}

// DietSection - шаг 4 (вместе с ExerciseSection)
type DietSection struct {
	CurrentFood     string   `json:"current_food"`
	FeedingSchedule string   `json:"feeding_schedule"`
	Treats          string   `json:"treats,omitempty"`
	Supplements     []string `json:"supplements,omitempty"`
}

// ExerciseSection - шаг 4
type ExerciseSection struct {
	Frequency  string `json:"frequency"`
	Duration   string `json:"duration"`
	Activities string `json:"activities,omitempty"`
}

// BehaviorSection - шаг 5
type BehaviorSection struct {
	Temperament   string `json:"temperament"`
	Socialization string `json:"socialization"`
	Anxieties     string `json:"anxieties,omitempty"`
	SleepPattern  string `json:"sleep_pattern,omitempty"`
}

// GoalsSection - шаг 6
type GoalsSection struct {
	PrimaryGoals []string `json:"primary_goals"`
	Notes        string   `json:"notes,omitempty"`
}

// EmergencyContactSection - шаг 7
type EmergencyContactSection struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
}

// StepError - ошибка валидации шага анкеты
type StepError struct {
	Step    int
	Field   string
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func requireFields(step int, fields ...[2]string) error {
	for _, f := range fields {
		if blank(f[1]) {
			return &StepError{Step: step, Field: f[0], Message: f[0] + " is required"}
		}
	}
	return nil
}

// ValidateStep - чистый предикат над накопленным состоянием анкеты для шага 1..7
func (m *MedicalHistory) ValidateStep(step int) error {
	switch step {
	case 1:
		return requireFields(step,
			[2]string{"pet_info.name", m.PetInfo.Name},
			[2]string{"pet_info.species", m.PetInfo.Species},
			[2]string{"pet_info.breed", m.PetInfo.Breed},
			[2]string{"pet_info.sex", m.PetInfo.Sex},
			[2]string{"pet_info.date_of_birth", m.PetInfo.DateOfBirth},
		)
	case 2:
		return requireFields(step,
			[2]string{"medical_history.vaccination_status", m.MedicalHistory.VaccinationStatus},
			[2]string{"medical_history.spayed_neutered", m.MedicalHistory.SpayedNeutered},
		)
	case 3:
		return requireFields(step,
			[2]string{"current_health.overall_health", m.CurrentHealth.OverallHealth},
			[2]string{"current_health.energy_level", m.CurrentHealth.EnergyLevel},
		)
	case 4:
		return requireFields(step,
			[2]string{"diet.current_food", m.Diet.CurrentFood},
			[2]string{"diet.feeding_schedule", m.Diet.FeedingSchedule},
			[2]string{"exercise.frequency", m.Exercise.Frequency},
			[2]string{"exercise.duration", m.Exercise.Duration},
		)
	case 5:
		return requireFields(step,
			[2]string{"behavior.temperament", m.Behavior.Temperament},
			[2]string{"behavior.socialization", m.Behavior.Socialization},
		)
	case 6:
		for _, g := range m.Goals.PrimaryGoals {
			if !blank(g) {
				return nil
			}
		}
		return &StepError{Step: step, Field: "goals.primary_goals", Message: "at least one primary goal is required"}
	case 7:
		if err := requireFields(step,
			[2]string{"emergency_contact.name", m.EmergencyContact.Name},
			[2]string{"emergency_contact.relationship", m.EmergencyContact.Relationship},
			[2]string{"emergency_contact.phone", m.EmergencyContact.Phone},
		); err != nil {
			return err
		}
		if !ValidatePhone(m.EmergencyContact.Phone) {
			return &StepError{Step: step, Field: "emergency_contact.phone", Message: "emergency_contact.phone is not a valid phone number"}
		}
		return nil
	}
	return &StepError{Step: step, Message: fmt.Sprintf("unknown step %d", step)}
}

// Validate проверяет все шаги по порядку и возвращает первую ошибку
func (m *MedicalHistory) Validate() error {
	for step := 1; step <= IntakeStepCount; step++ {
		if err := m.ValidateStep(step); err != nil {
			return err
		}
	}
	return nil
}

// MedicalHistorySubmission - сохранённая анкета
type MedicalHistorySubmission struct {
	ClientID    string         `json:"client_id"`
	PetID       string         `json:"pet_id"`
	Data        MedicalHistory `json:"data"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// IntakeDraft - черновик анкеты, позволяет продолжить заполнение с другого устройства
type IntakeDraft struct {
	ClientID  string         `json:"client_id"`
	PetID     string         `json:"pet_id"`
	Step      int            `json:"step"`
	Data      MedicalHistory `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Состояния мастера анкеты
const (
	WizardStateEditing = "editing"
	WizardStateSuccess = "success"
)

// ErrWizardSubmitted возвращается при попытке изменить уже отправленную анкету
var ErrWizardSubmitted = errors.New("intake form already submitted")

// IntakeWizard - конечный автомат навигации по шагам 1..7.
// Next разрешён только после успешной проверки текущего шага, Previous - всегда.
type IntakeWizard struct {
	Step  int
	State string
	Data  MedicalHistory
	// LastError - ошибка последней попытки (валидации или отправки), для баннера
	LastError error
}

// NewIntakeWizard создаёт мастер на первом шаге
func NewIntakeWizard(data MedicalHistory) *IntakeWizard {
	return &IntakeWizard{Step: 1, State: WizardStateEditing, Data: data}
}

// ResumeIntakeWizard восстанавливает мастер из черновика
func ResumeIntakeWizard(draft *IntakeDraft) *IntakeWizard {
	w := NewIntakeWizard(draft.Data)
	if draft.Step >= 1 && draft.Step <= IntakeStepCount {
		w.Step = draft.Step
	}
	return w
}

// Next переходит на следующий шаг, если текущий валиден
func (w *IntakeWizard) Next() error {
	if w.State == WizardStateSuccess {
		return ErrWizardSubmitted
	}
	if err := w.Data.ValidateStep(w.Step); err != nil {
		w.LastError = err
		return err
	}
	w.LastError = nil
	if w.Step < IntakeStepCount {
		w.Step++
	}
	return nil
}

// Previous возвращает на предыдущий шаг без проверки
func (w *IntakeWizard) Previous() {
	if w.State == WizardStateSuccess {
		return
	}
	w.LastError = nil
	if w.Step > 1 {
		w.Step--
	}
}

// Submit повторно проверяет последний шаг и сохраняет анкету через persist.
// При ошибке сохранения состояние формы не теряется и отправку можно повторить.
func (w *IntakeWizard) Submit(persist func(MedicalHistory) error) error {
	if w.State == WizardStateSuccess {
		return ErrWizardSubmitted
	}
	if w.Step != IntakeStepCount {
		err := &StepError{Step: w.Step, Message: "form can only be submitted from the final step"}
		w.LastError = err
		return err
	}
	if err := w.Data.ValidateStep(IntakeStepCount); err != nil {
		w.LastError = err
		return err
	}
	if err := persist(w.Data); err != nil {
		w.LastError = err
		return err
	}
	w.LastError = nil
	w.State = WizardStateSuccess
	return nil
}
