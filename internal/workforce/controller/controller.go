// Package controller implements the business logic (service layer) of the
// workforce API: validating request input, orchestrating repository
// operations and dispatching notifications.
package controller

import (
	"context"

	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gartstein/workforce/internal/workforce/validation"
)

// Dispatcher delivers notifications out of band. Dispatch must not block.
type Dispatcher interface {
	Dispatch(n events.Notification)
}

// CompanyRepository is the storage used by CompanyService. Exists backs
// the uniqueness rule on company names.
type CompanyRepository interface {
	validation.Store
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	DeleteCompany(ctx context.Context, id int64) error
}

// EmployeeRepository is the storage used by EmployeeService. Exists backs
// the company reference rule.
type EmployeeRepository interface {
	validation.Store
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	ListEmployees(ctx context.Context) ([]*models.Employee, error)
	ListEmployeesByCompany(ctx context.Context, companyID int64) ([]*models.Employee, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, employee *models.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
}

// StatisticsRepository is the storage used by StatisticsService.
type StatisticsRepository interface {
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	ListEmployeesByCompany(ctx context.Context, companyID int64) ([]*models.Employee, error)
}

// validate runs rs and returns the violations as an error.
func validate(ctx context.Context, engine *validation.Engine, rs *validation.RuleSet, in validation.Input) error {
	errs, err := engine.Validate(ctx, rs, in)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
