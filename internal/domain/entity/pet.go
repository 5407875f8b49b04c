package entity

import "time"

// Pet - питомец, принадлежащий ровно одному клиенту
type Pet struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"` // dog, cat, other
	Breed       string     `json:"breed,omitempty"`
	Sex         string     `json:"sex,omitempty"`
	DateOfBirth string     `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	WeightKg    float64    `json:"weight_kg,omitempty"`
	Microchip   string     `json:"microchip,omitempty"`
	Status      string     `json:"status"` // active, deceased, transferred
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// Статусы питомца
const (
	PetStatusActive      = "active"
	PetStatusDeceased    = "deceased"
	PetStatusTransferred = "transferred"
)
