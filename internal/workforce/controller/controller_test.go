package controller

import (
	"context"
	"sync"

	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/models"
)

// MockRepository implements every repository interface of the package.
// Unset functions behave like an empty store.
type MockRepository struct {
	exists                 func(context.Context, string, string, any) (bool, error)
	listCompanies          func(context.Context) ([]*models.Company, error)
	createCompany          func(context.Context, *models.Company) error
	getCompany             func(context.Context, int64) (*models.Company, error)
	updateCompany          func(context.Context, *models.Company) error
	deleteCompany          func(context.Context, int64) error
	listEmployees          func(context.Context) ([]*models.Employee, error)
	listEmployeesByCompany func(context.Context, int64) ([]*models.Employee, error)
	createEmployee         func(context.Context, *models.Employee) error
	getEmployee            func(context.Context, int64) (*models.Employee, error)
	updateEmployee         func(context.Context, *models.Employee) error
	deleteEmployee         func(context.Context, int64) error
}

func (m *MockRepository) Exists(ctx context.Context, table, column string, value any) (bool, error) {
	if m.exists == nil {
		return false, nil
	}
	return m.exists(ctx, table, column, value)
}

func (m *MockRepository) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	return m.listCompanies(ctx)
}

func (m *MockRepository) CreateCompany(ctx context.Context, c *models.Company) error {
	return m.createCompany(ctx, c)
}

func (m *MockRepository) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	if m.getCompany == nil {
		return nil, e.ErrNotFound
	}
	return m.getCompany(ctx, id)
}

func (m *MockRepository) UpdateCompany(ctx context.Context, c *models.Company) error {
	return m.updateCompany(ctx, c)
}

func (m *MockRepository) DeleteCompany(ctx context.Context, id int64) error {
	return m.deleteCompany(ctx, id)
}

func (m *MockRepository) ListEmployees(ctx context.Context) ([]*models.Employee, error) {
	return m.listEmployees(ctx)
}

func (m *MockRepository) ListEmployeesByCompany(ctx context.Context, id int64) ([]*models.Employee, error) {
	return m.listEmployeesByCompany(ctx, id)
}

func (m *MockRepository) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	return m.createEmployee(ctx, emp)
}

func (m *MockRepository) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	return m.getEmployee(ctx, id)
}

func (m *MockRepository) UpdateEmployee(ctx context.Context, emp *models.Employee) error {
	return m.updateEmployee(ctx, emp)
}

func (m *MockRepository) DeleteEmployee(ctx context.Context, id int64) error {
	return m.deleteEmployee(ctx, id)
}

// MockDispatcher records notifications and signals the wait group.
type MockDispatcher struct {
	mu            sync.Mutex
	notifications []events.Notification
	wg            *sync.WaitGroup
}

func (m *MockDispatcher) Dispatch(n events.Notification) {
	m.mu.Lock()
	m.notifications = append(m.notifications, n)
	m.mu.Unlock()
	if m.wg != nil {
		m.wg.Done()
	}
}

func (m *MockDispatcher) sent() []events.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Notification(nil), m.notifications...)
}
