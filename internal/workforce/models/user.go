package models

import "time"

// User is an account allowed to log in to the API.
type User struct {
	ID              int64
	Name            string
	Email           string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
