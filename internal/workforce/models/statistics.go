package models

import "github.com/shopspring/decimal"

// CompanyStatistics aggregates salary and age over the employees of one
// company. A nil field means no employee carried a value for it.
type CompanyStatistics struct {
	AverageSalary *decimal.Decimal
	AverageAge    *decimal.Decimal
	MaxSalary     *decimal.Decimal
	MinSalary     *decimal.Decimal
	MaxAge        *int
	MinAge        *int
}
