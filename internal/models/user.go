package models

import "time"

// User represents an application user. Every ledger entity carries its
// owner's user id; nothing is shared across users.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	DisplayName  string `gorm:"size:64"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	LastLoginAt *time.Time
}
