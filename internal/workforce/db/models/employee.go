package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a row of the employees table. CompanyID is indexed but carries
// no foreign key: deleting a company leaves its employees in place.
type Employee struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	FirstName string  `gorm:"size:255;not null"`
	LastName  string  `gorm:"size:255;not null"`
	CompanyID *int64  `gorm:"index:idx_employees_company_id"`
	Email     *string `gorm:"size:255"`
	Age       *int
	Salary    decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
