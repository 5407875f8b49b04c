package entity

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Client представляет владельца питомцев с доступом к порталу
type Client struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           string     `json:"phone,omitempty"`
	PreferredLocale string     `json:"preferred_locale"`
	PasswordHash    string     `json:"-"`
	Status          string     `json:"status"` // active, inactive
	Notes           string     `json:"notes,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Статусы клиента
const (
	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
)

// clientRecord - представление клиента в хранилище: хеш пароля сохраняется, но в API не отдаётся
type clientRecord struct {
	Client
	PasswordHash string `json:"password_hash"`
}

// MarshalStorage сериализует клиента для хранилища вместе с хешем пароля
func (c *Client) MarshalStorage() ([]byte, error) {
	return json.Marshal(&clientRecord{Client: *c, PasswordHash: c.PasswordHash})
}

// UnmarshalClientStorage восстанавливает клиента из JSON-записи хранилища
func UnmarshalClientStorage(data []byte) (*Client, error) {
	var rec clientRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	client := rec.Client
	client.PasswordHash = rec.PasswordHash
	return &client, nil
}

// FullName возвращает имя и фамилию клиента
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NormalizeEmail приводит email к виду, используемому в индексе client:email:{email}
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword хеширует пароль bcrypt
func (c *Client) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (c *Client) CheckPassword(password string) bool {
	if c.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}
