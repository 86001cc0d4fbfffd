package db

import (
	"context"
	"errors"
	"time"

	"github.com/gartstein/workforce/internal/pkg/utils"
	dbmodels "github.com/gartstein/workforce/internal/workforce/db/models"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (r *Repository) ListEmployees(ctx context.Context) ([]*models.Employee, error) {
	return r.findEmployees(r.db.WithContext(ctx))
}

// ListEmployeesByCompany returns the employees whose company_id equals
// companyID. It does not check that the company exists.
func (r *Repository) ListEmployeesByCompany(ctx context.Context, companyID int64) ([]*models.Employee, error) {
	return r.findEmployees(r.db.WithContext(ctx).Where("company_id = ?", companyID))
}

func (r *Repository) findEmployees(query *gorm.DB) ([]*models.Employee, error) {
	var rows []dbmodels.Employee
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	employees := make([]*models.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, employeeFromRow(&rows[i]))
	}
	return employees, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	row := employeeToRow(employee)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*employee = *employeeFromRow(row)
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	var row dbmodels.Employee
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return employeeFromRow(&row), nil
}

// UpdateEmployee replaces every mutable column of the employee with
// employee.ID. Nil optional fields are written as NULL.
func (r *Repository) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	row := employeeToRow(employee)
	result := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Where("id = ?", employee.ID).
		Updates(map[string]any{
			"first_name": row.FirstName,
			"last_name":  row.LastName,
			"company_id": row.CompanyID,
			"email":      row.Email,
			"age":        row.Age,
			"salary":     row.Salary,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func employeeToRow(emp *models.Employee) *dbmodels.Employee {
	row := &dbmodels.Employee{
		ID:        emp.ID,
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
		CompanyID: emp.CompanyID,
		Email:     emp.Email,
		Age:       emp.Age,
		CreatedAt: emp.CreatedAt,
		UpdatedAt: emp.UpdatedAt,
	}
	if emp.Salary != nil {
		row.Salary = decimal.NewNullDecimal(*emp.Salary)
	}
	return row
}

func employeeFromRow(row *dbmodels.Employee) *models.Employee {
	emp := &models.Employee{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		CompanyID: row.CompanyID,
		Email:     row.Email,
		Age:       row.Age,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Salary.Valid {
		emp.Salary = utils.Ptr(row.Salary.Decimal)
	}
	return emp
}
