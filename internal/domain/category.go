package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;size:140" json:"slug"`
	Title       string    `gorm:"size:180" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CoverURL    string    `gorm:"size:255" json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Computed on read from published products, never stored.
	ProductCount int64 `gorm:"-" json:"product_count"`
}
