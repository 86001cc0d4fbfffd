package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/workforce/internal/pkg/utils"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gartstein/workforce/internal/workforce/validation"
	"go.uber.org/zap"
)

const notificationTitle = "Mail from Company-employees"

// EmployeeService manages employees and notifies companies about new
// hires.
type EmployeeService struct {
	repo       EmployeeRepository
	dispatcher Dispatcher
	engine     *validation.Engine
	logger     *zap.Logger
}

func NewEmployeeService(repo EmployeeRepository, dispatcher Dispatcher, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:       repo,
		dispatcher: dispatcher,
		engine:     validation.NewEngine(repo),
		logger:     logger.Named("employee_service"),
	}
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]*models.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// CreateEmployee validates in and stores a new employee. If the employee
// belongs to a company with an email address, the company is notified
// once the employee is stored.
func (s *EmployeeService) CreateEmployee(ctx context.Context, in validation.Input) (*models.Employee, error) {
	if err := validate(ctx, s.engine, validation.CreateEmployee, in); err != nil {
		return nil, err
	}

	employee := employeeFromInput(in)
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	s.logger.Info("Employee created", zap.Int64("employee_id", employee.ID))

	s.notifyCompany(ctx, employee)
	return employee, nil
}

func (s *EmployeeService) notifyCompany(ctx context.Context, employee *models.Employee) {
	if employee.CompanyID == nil {
		return
	}
	company, err := s.repo.GetCompany(ctx, *employee.CompanyID)
	if err != nil {
		if !errors.Is(err, e.ErrNotFound) {
			s.logger.Error("Failed to load company for notification",
				zap.Error(err),
				zap.Int64("company_id", *employee.CompanyID),
			)
		}
		return
	}
	if company.Email == nil {
		return
	}

	n := events.Notification{
		To:    *company.Email,
		Title: notificationTitle,
		Body:  fmt.Sprintf("New employee, named %s added to your company.", employee.FullName()),
	}
	s.dispatcher.Dispatch(n)
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// UpdateEmployee validates in, then replaces every field of the employee.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, in validation.Input) (*models.Employee, error) {
	if err := validate(ctx, s.engine, validation.UpdateEmployee, in); err != nil {
		return nil, err
	}

	employee := employeeFromInput(in)
	employee.ID = id
	if err := s.repo.UpdateEmployee(ctx, employee); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	s.logger.Info("Employee updated", zap.Int64("employee_id", id))
	return employee, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.logger.Info("Employee deleted", zap.Int64("employee_id", id))
	return nil
}

// FilterByCompany lists the employees of an existing company.
func (s *EmployeeService) FilterByCompany(ctx context.Context, companyID int64) ([]*models.Employee, error) {
	if _, err := s.repo.GetCompany(ctx, companyID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	employees, err := s.repo.ListEmployeesByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees of company: %w", err)
	}
	return employees, nil
}

func employeeFromInput(in validation.Input) *models.Employee {
	return &models.Employee{
		FirstName: utils.Deref(in.String("first_name")),
		LastName:  utils.Deref(in.String("last_name")),
		CompanyID: in.Int64("company_id"),
		Email:     in.String("email"),
		Age:       in.Int("age"),
		Salary:    in.Decimal("salary"),
	}
}
