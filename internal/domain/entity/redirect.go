package entity

import "time"

// Redirect - управляемое из админки перенаправление страницы
type Redirect struct {
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Permanent   bool      `json:"permanent"`
	Hits        int64     `json:"hits"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusCode возвращает HTTP-код перенаправления
func (r *Redirect) StatusCode() int {
	if r.Permanent {
		return 301
	}
	return 302
}
