package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gartstein/workforce/internal/workforce/validation"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const (
	employeeNotFound         = "Employee not found"
	specifiedCompanyNotFound = "Specified company not found"
)

// EmployeeController is the employee business logic the handlers invoke.
type EmployeeController interface {
	ListEmployees(ctx context.Context) ([]*models.Employee, error)
	CreateEmployee(ctx context.Context, in validation.Input) (*models.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, in validation.Input) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	FilterByCompany(ctx context.Context, companyID int64) ([]*models.Employee, error)
}

// EmployeeHandler serves the /employees routes.
type EmployeeHandler struct {
	service EmployeeController
	logger  *zap.Logger
}

func NewEmployeeHandler(service EmployeeController, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.Named("employee_handler"),
	}
}

func (h *EmployeeHandler) Register(mux *runtime.ServeMux) error {
	routes := []route{
		{http.MethodGet, "/employees", h.List},
		{http.MethodPost, "/employees", h.Create},
		{http.MethodGet, "/employees/{id}", h.Get},
		{http.MethodPut, "/employees/{id}", h.Update},
		{http.MethodDelete, "/employees/{id}", h.Delete},
		{http.MethodGet, "/employees/filter/{company_id}", h.FilterByCompany},
	}
	return registerRoutes(mux, routes)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		mapServiceError(w, h.logger, err, employeeNotFound)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, employeesToResponse(employees))
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	in, err := decodeInput(r)
	if err != nil {
		mapServiceError(w, h.logger, err, employeeNotFound)
		return
	}

	employee, err := h.service.CreateEmployee(r.Context(), in)
	if err != nil {
		mapServiceError(w, h.logger, err, employeeNotFound)
		return
	}
	respondMessage(w, h.logger, http.StatusOK, fmt.Sprintf("Employee '%s' created successfully", employee.FullName()))
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	employee, err := h.service.GetEmployee(r.Context(), parseID(pathParams, "id"))
	if err != nil {
		mapServiceError(w, h.logger, err, employeeNotFound)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, employeeToResponse(employee))
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	in, err := decodeInput(r)
	if err != nil {
		mapServiceError(w, h.logger, err, employeeNotFound)
		return
	}

	if _, err := h.service.UpdateEmployee(r.Context(), parseID(pathParams, "id"), in); err != nil {
		mapServiceError(w, h.logger, err, employeeNotFound)
		return
	}
	respondMessage(w, h.logger, http.StatusOK, "Employee details updated")
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	if err := h.service.DeleteEmployee(r.Context(), parseID(pathParams, "id")); err != nil {
		mapServiceError(w, h.logger, err, employeeNotFound)
		return
	}
	respondMessage(w, h.logger, http.StatusOK, "Employee deleted successfully")
}

func (h *EmployeeHandler) FilterByCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	employees, err := h.service.FilterByCompany(r.Context(), parseID(pathParams, "company_id"))
	if err != nil {
		mapServiceError(w, h.logger, err, specifiedCompanyNotFound)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, employeesToResponse(employees))
}
