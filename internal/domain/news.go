package domain

import (
	"time"

	"github.com/lib/pq"
)

type NewsPost struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug        string         `gorm:"uniqueIndex;size:140" json:"slug"`
	Title       string         `gorm:"size:180" json:"title"`
	Excerpt     string         `gorm:"type:text" json:"excerpt,omitempty"`
	ContentMD   string         `gorm:"type:text" json:"content_md,omitempty"`
	CoverURL    string         `gorm:"size:255" json:"cover_url,omitempty"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Published   bool           `gorm:"column:is_published;default:false;index" json:"is_published"`
	PublishedAt time.Time      `gorm:"index" json:"published_at"`
	AuthorEmail string         `gorm:"size:140" json:"author_email,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type NewsFilter struct {
	Query         string
	Tag           string
	Page          int
	PageSize      int
	PublishedOnly bool
}
