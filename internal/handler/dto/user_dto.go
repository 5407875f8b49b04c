package dto

import "time"

// AdminDTO - администратор без хеша пароля
type AdminDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse - ответ на успешный вход. Токен дублируется в теле для клиентов без cookie.
type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      interface{} `json:"user"`
}

// PaginatedResponse - страница списка для админки
type PaginatedResponse struct {
	Items   interface{} `json:"items"`    // Элементы текущей страницы
	Total   int64       `json:"total"`    // Общее количество записей
	Page    int         `json:"page"`     // Текущая страница
	PerPage int         `json:"per_page"` // Количество записей на странице
}
