package entity

import "time"

// SEOPage - метаданные страницы для конкретной локали
type SEOPage struct {
	Path        string    `json:"path"`
	Locale      string    `json:"locale"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	OGImage     string    `json:"og_image,omitempty"`
	Canonical   string    `json:"canonical,omitempty"`
	NoIndex     bool      `json:"no_index"`
	UpdatedAt   time.Time `json:"updated_at"`
}
