package entity

import "time"

// Post - статья блога в конкретной локали
type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Locale      string     `json:"locale"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content"`
	Author      string     `json:"author,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Status      string     `json:"status"` // draft, published
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Статусы публикации
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// IsPublished сообщает, доступна ли статья на публичном сайте
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished && p.PublishedAt != nil
}
