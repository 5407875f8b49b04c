package dto

import "github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"

// LoginRequest - вход администратора или клиента
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest - смена пароля клиентом в портале
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// CreateAppointmentRequest - заявка на приём с сайта
type CreateAppointmentRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required,phone"`
	PetName       string `json:"pet_name" binding:"max=100"`
	PetSpecies    string `json:"pet_species" binding:"omitempty,oneof=dog cat other"`
	Service       string `json:"service" binding:"required,max=100"`
	PreferredDate string `json:"preferred_date" binding:"required"`
	PreferredTime string `json:"preferred_time" binding:"max=50"`
	Message       string `json:"message" binding:"max=5000"`
	Locale        string `json:"locale" binding:"omitempty,locale"`
	// PetID учитывается только при клиентской сессии
	PetID string `json:"pet_id"`
}

// UpdateAppointmentRequest - изменение записи администратором
type UpdateAppointmentRequest struct {
	Status        *string `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled no_show"`
	AdminNotes    *string `json:"admin_notes" binding:"omitempty,max=5000"`
	PreferredDate *string `json:"preferred_date"`
	PreferredTime *string `json:"preferred_time" binding:"omitempty,max=50"`
}

// AssignOwnerRequest - привязка публичной заявки к клиенту и питомцу
type AssignOwnerRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	PetID    string `json:"pet_id" binding:"required,uuid"`
}

// ContactRequest - форма обратной связи
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,phone"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
	Locale  string `json:"locale" binding:"omitempty,locale"`
}

// ContactStatusRequest - смена статуса обращения
type ContactStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new read replied archived"`
}

// ContactReplyRequest - ответ администратора на обращение
type ContactReplyRequest struct {
	Message string `json:"message" binding:"required,max=10000"`
}

// CreateClientRequest - создание клиента в админке
type CreateClientRequest struct {
	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"max=100"`
	Phone           string `json:"phone" binding:"omitempty,phone"`
	PreferredLocale string `json:"preferred_locale" binding:"omitempty,locale"`
	Notes           string `json:"notes" binding:"max=5000"`
	Password        string `json:"password" binding:"omitempty,min=8"`
}

// UpdateClientRequest - изменение клиента; отсутствующие поля не меняются
type UpdateClientRequest struct {
	Email           *string `json:"email" binding:"omitempty,email"`
	FirstName       *string `json:"first_name" binding:"omitempty,max=100"`
	LastName        *string `json:"last_name" binding:"omitempty,max=100"`
	Phone           *string `json:"phone" binding:"omitempty,phone"`
	PreferredLocale *string `json:"preferred_locale" binding:"omitempty,locale"`
	Status          *string `json:"status" binding:"omitempty,oneof=active inactive"`
	Notes           *string `json:"notes" binding:"omitempty,max=5000"`
}

// PetRequest - создание или изменение питомца
type PetRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Species     *string  `json:"species" binding:"omitempty,oneof=dog cat other"`
	Breed       *string  `json:"breed" binding:"omitempty,max=100"`
	Sex         *string  `json:"sex" binding:"omitempty,max=20"`
	DateOfBirth *string  `json:"date_of_birth"`
	WeightKg    *float64 `json:"weight_kg" binding:"omitempty,gte=0,lte=200"`
	Microchip   *string  `json:"microchip" binding:"omitempty,max=50"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active deceased transferred"`
	Notes       *string  `json:"notes" binding:"omitempty,max=5000"`
}

// SignatureRequest - подпись под документом
type SignatureRequest struct {
	Method string `json:"method" binding:"required,oneof=typed drawn checkbox"`
	Value  string `json:"value" binding:"required,max=100000"`
}

// AcceptConsentRequest - принятие документа
type AcceptConsentRequest struct {
	DocumentID string           `json:"document_id" binding:"required"`
	PetID      string           `json:"pet_id"`
	Signature  SignatureRequest `json:"signature" binding:"required"`
}

// RevokeConsentRequest - отзыв согласия
type RevokeConsentRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
	PetID      string `json:"pet_id"`
}

// OnboardingStatusRequest - создание записи онбординга
type OnboardingStatusRequest struct {
	PetID string `json:"pet_id" binding:"required"`
}

// OnboardingStepRequest - отметка этапа
type OnboardingStepRequest struct {
	PetID     string                `json:"pet_id" binding:"required"`
	Step      entity.OnboardingStep `json:"step" binding:"required,oneof=account pet_profile medical_history consents appointment"`
	Completed *bool                 `json:"completed" binding:"required"`
}

// MedicalHistoryRequest - отправка анкеты
type MedicalHistoryRequest struct {
	PetID string                `json:"pet_id" binding:"required"`
	Data  entity.MedicalHistory `json:"data"`
}

// IntakeDraftRequest - сохранение черновика анкеты
type IntakeDraftRequest struct {
	PetID string                `json:"pet_id" binding:"required"`
	Step  int                   `json:"step" binding:"required,min=1,max=7"`
	Data  entity.MedicalHistory `json:"data"`
}

// TrackRequest - маяк просмотра страницы
type TrackRequest struct {
	Path string `json:"path" binding:"required,max=2048"`
}

// ConversionRequest - маяк конверсии
type ConversionRequest struct {
	Type string `json:"type" binding:"required"`
}

// PostRequest - создание или изменение статьи
type PostRequest struct {
	Slug       *string  `json:"slug" binding:"omitempty,max=200"`
	Locale     *string  `json:"locale" binding:"omitempty,locale"`
	Title      *string  `json:"title" binding:"omitempty,max=300"`
	Excerpt    *string  `json:"excerpt" binding:"omitempty,max=1000"`
	Content    *string  `json:"content"`
	Author     *string  `json:"author" binding:"omitempty,max=200"`
	CoverImage *string  `json:"cover_image" binding:"omitempty,max=2048"`
	Tags       []string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	Status     *string  `json:"status" binding:"omitempty,oneof=draft published"`
}

// RedirectRequest - создание или замена перенаправления
type RedirectRequest struct {
	Source      string `json:"source" binding:"required,max=2048"`
	Destination string `json:"destination" binding:"required,max=2048"`
	Permanent   bool   `json:"permanent"`
}

// SEOPageRequest - метаданные страницы
type SEOPageRequest struct {
	Path        string   `json:"path" binding:"required,max=2048"`
	Locale      string   `json:"locale" binding:"required,locale"`
	Title       string   `json:"title" binding:"required,max=300"`
	Description string   `json:"description" binding:"max=1000"`
	Keywords    []string `json:"keywords" binding:"omitempty,max=30,dive,max=100"`
	OGImage     string   `json:"og_image" binding:"max=2048"`
	Canonical   string   `json:"canonical" binding:"max=2048"`
	NoIndex     bool     `json:"no_index"`
}
