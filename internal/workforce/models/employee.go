package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee defines the domain model for an employee.
// CompanyID is a weak reference: it is checked when the employee is written
// and is left dangling if the company is deleted later.
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	CompanyID *int64
	Email     *string
	Age       *int
	Salary    *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name the way notifications and
// confirmation messages print them.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
