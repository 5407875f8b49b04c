package entity

import "time"

// ContactSubmission - обращение через форму обратной связи
type ContactSubmission struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Message   string         `json:"message"`
	Locale    string         `json:"locale"`
	Status    string         `json:"status"`
	Replies   []ContactReply `json:"replies,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ContactReply - ответ администратора, отправленный по email
type ContactReply struct {
	Message string    `json:"message"`
	SentBy  string    `json:"sent_by"`
	SentAt  time.Time `json:"sent_at"`
}

// Статусы обращения
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// IsValidContactStatus проверяет допустимость статуса обращения
func IsValidContactStatus(status string) bool {
	switch status {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusArchived:
		return true
	}
	return false
}
