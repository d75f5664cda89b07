package domain

import "time"

// Lead is a contact-form submission. Write-only from the public side,
// read/delete only through the admin API.
type Lead struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:140" json:"name"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Email     string    `gorm:"size:140" json:"email"`
	Model     string    `gorm:"size:140" json:"model,omitempty"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
