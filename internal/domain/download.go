package domain

import (
	"time"

	"github.com/lib/pq"
)

type DownloadCategory struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug  string `gorm:"uniqueIndex;size:140" json:"slug"`
	Title string `gorm:"size:180" json:"title"`
}

type Download struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug        string         `gorm:"uniqueIndex;size:140" json:"slug"`
	Title       string         `gorm:"size:180" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CategoryID  *int64         `gorm:"index" json:"category_id,omitempty"`
	FileURL     string         `gorm:"size:255" json:"file_url"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	Published   bool           `gorm:"column:is_published;default:false;index" json:"is_published"`
	PublishedAt time.Time      `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Category *DownloadCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

type DownloadFilter struct {
	CategoryID    *int64
	Query         string
	PublishedOnly bool
}
