package models

import "time"

// Admin is an operator allowed to log in and manage orders.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PasswordHash string    `gorm:"size:256;not null" json:"-"` // bcrypt, never exposed in JSON
}
