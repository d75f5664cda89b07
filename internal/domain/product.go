package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Slug       string     `gorm:"uniqueIndex;size:140" json:"slug"`
	Title      string     `gorm:"size:180" json:"title"`
	ShortDesc  string     `gorm:"type:text" json:"short_description,omitempty"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Images     ImageList  `gorm:"type:jsonb" json:"images"`
	Specs      SpecMap    `gorm:"type:jsonb" json:"specs"`
	PriceFrom  *float64   `gorm:"type:decimal(12,2)" json:"price_from,omitempty"`
	Published  bool       `gorm:"column:is_published;default:false;index" json:"is_published"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ProductFilter narrows List; the title search and pagination live in the
// catalog pipeline, not in the store query.
type ProductFilter struct {
	CategoryID    *uuid.UUID
	PublishedOnly bool
}
