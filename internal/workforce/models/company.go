// Package models defines the core domain models of the workforce service:
// companies, their employees, login users and per-company statistics.
package models

import (
	"time"
)

// Company defines the domain model for a company entity.
type Company struct {
	// ID is the system-assigned identifier of the company.
	ID int64
	// Name is the company's name, unique across all companies.
	Name string
	// Email is the address notified when employees are added.
	Email *string
	// Website is a free-form website reference.
	Website *string
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time
}
