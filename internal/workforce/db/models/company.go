// Package models contains the storage rows of the workforce service,
// mapped with GORM onto the tables created by the goose migrations.
package models

import (
	"time"
)

// Company is a row of the companies table. Name carries the UNIQUE index
// that closes the check-then-insert race of the name uniqueness rule.
type Company struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"size:255;not null;uniqueIndex:idx_companies_name"`
	Email     *string `gorm:"size:255"`
	Website   *string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
