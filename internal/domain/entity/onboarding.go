package entity

import "time"

// OnboardingStep - этап подключения клиента и питомца
type OnboardingStep string

// Этапы онбординга в порядке прохождения
const (
	OnboardingStepAccount        OnboardingStep = "account"
	OnboardingStepPetProfile     OnboardingStep = "pet_profile"
	OnboardingStepMedicalHistory OnboardingStep = "medical_history"
	OnboardingStepConsents       OnboardingStep = "consents"
	OnboardingStepAppointment    OnboardingStep = "appointment"
)

// OnboardingSteps - фиксированный порядок этапов
var OnboardingSteps = []OnboardingStep{
	OnboardingStepAccount,
	OnboardingStepPetProfile,
	OnboardingStepMedicalHistory,
	OnboardingStepConsents,
	OnboardingStepAppointment,
}

// IsValidOnboardingStep проверяет имя этапа
func IsValidOnboardingStep(step OnboardingStep) bool {
	for _, s := range OnboardingSteps {
		if s == step {
			return true
		}
	}
	return false
}

// OnboardingStatus - прогресс онбординга по паре (клиент, питомец).
// Создаётся один раз, дальше обновляется по мере прохождения этапов.
type OnboardingStatus struct {
	ClientID    string                        `json:"client_id"`
	PetID       string                        `json:"pet_id"`
	Steps       map[OnboardingStep]*time.Time `json:"steps"`
	CompletedAt *time.Time                    `json:"completed_at,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// NewOnboardingStatus создаёт запись с отмеченным этапом account
func NewOnboardingStatus(clientID, petID string, now time.Time) *OnboardingStatus {
	s := &OnboardingStatus{
		ClientID:  clientID,
		PetID:     petID,
		Steps:     make(map[OnboardingStep]*time.Time),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.MarkStep(OnboardingStepAccount, true, now)
	return s
}

// MarkStep отмечает или снимает отметку с этапа. Повторная отметка сохраняет исходное время.
func (s *OnboardingStatus) MarkStep(step OnboardingStep, completed bool, now time.Time) {
	if s.Steps == nil {
		s.Steps = make(map[OnboardingStep]*time.Time)
	}
	if completed {
		if s.Steps[step] == nil {
			t := now
			s.Steps[step] = &t
		}
	} else {
		delete(s.Steps, step)
	}
	s.UpdatedAt = now

	if s.IsComplete() {
		if s.CompletedAt == nil {
			t := now
			s.CompletedAt = &t
		}
	} else {
		s.CompletedAt = nil
	}
}

// IsStepComplete сообщает, пройден ли этап
func (s *OnboardingStatus) IsStepComplete(step OnboardingStep) bool {
	return s.Steps[step] != nil
}

// IsComplete - пройдены ли все этапы
func (s *OnboardingStatus) IsComplete() bool {
	for _, step := range OnboardingSteps {
		if !s.IsStepComplete(step) {
			return false
		}
	}
	return true
}

// NextStep возвращает первый непройденный этап или пустую строку
func (s *OnboardingStatus) NextStep() OnboardingStep {
	for _, step := range OnboardingSteps {
		if !s.IsStepComplete(step) {
			return step
		}
	}
	return ""
}

// Progress возвращает число пройденных этапов
func (s *OnboardingStatus) Progress() int {
	n := 0
	for _, step := range OnboardingSteps {
		if s.IsStepComplete(step) {
			n++
		}
	}
	return n
}
