package models

import "time"

// User is a row of the users table.
type User struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"size:255;not null"`
	Email           string `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	Password        string `gorm:"size:255;not null"`
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
