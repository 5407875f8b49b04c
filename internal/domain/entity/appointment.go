package entity

import (
	"time"
)

// Appointment - запись на приём. Публичная заявка с сайта может не иметь
// ClientID/PetID, пока администратор не свяжет её с клиентом.
type Appointment struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id,omitempty"`
	PetID         string    `json:"pet_id,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PetName       string    `json:"pet_name"`
	PetSpecies    string    `json:"pet_species"`
	Service       string    `json:"service"`
	PreferredDate string    `json:"preferred_date"` // YYYY-MM-DD
	PreferredTime string    `json:"preferred_time,omitempty"`
	Message       string    `json:"message,omitempty"`
	Locale        string    `json:"locale"`
	Status        string    `json:"status"`
	AdminNotes    string    `json:"admin_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Статусы записи на приём
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusNoShow    = "no_show"
)

// IsValidAppointmentStatus проверяет допустимость статуса
func IsValidAppointmentStatus(status string) bool {
	switch status {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// HasOwner сообщает, связана ли запись с клиентом и питомцем
func (a *Appointment) HasOwner() bool {
	return a.ClientID != "" && a.PetID != ""
}
