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

const companyNotFound = "Company not found"

// CompanyController is the company business logic the handlers invoke.
type CompanyController interface {
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	CreateCompany(ctx context.Context, in validation.Input) (*models.Company, error)
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	UpdateCompany(ctx context.Context, id int64, in validation.Input) (*models.Company, error)
	DeleteCompany(ctx context.Context, id int64) error
}

// StatisticsController computes per-company aggregates.
type StatisticsController interface {
	CompanyStatistics(ctx context.Context, companyID int64) (*models.CompanyStatistics, error)
}

// CompanyHandler serves the /companies routes.
type CompanyHandler struct {
	service CompanyController
	stats   StatisticsController
	logger  *zap.Logger
}

func NewCompanyHandler(service CompanyController, stats StatisticsController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		stats:   stats,
		logger:  logger.Named("company_handler"),
	}
}

func (h *CompanyHandler) Register(mux *runtime.ServeMux) error {
	routes := []route{
		{http.MethodGet, "/companies", h.List},
		{http.MethodPost, "/companies", h.Create},
		{http.MethodGet, "/companies/{id}", h.Get},
		{http.MethodPut, "/companies/{id}", h.Update},
		{http.MethodDelete, "/companies/{id}", h.Delete},
		{http.MethodGet, "/companies/information/{id}", h.Information},
	}
	return registerRoutes(mux, routes)
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		mapServiceError(w, h.logger, err, companyNotFound)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, companiesToResponse(companies))
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	in, err := decodeInput(r)
	if err != nil {
		mapServiceError(w, h.logger, err, companyNotFound)
		return
	}

	company, err := h.service.CreateCompany(r.Context(), in)
	if err != nil {
		mapServiceError(w, h.logger, err, companyNotFound)
		return
	}
	respondMessage(w, h.logger, http.StatusOK, fmt.Sprintf("Company named '%s' created successfully", company.Name))
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	company, err := h.service.GetCompany(r.Context(), parseID(pathParams, "id"))
	if err != nil {
		mapServiceError(w, h.logger, err, companyNotFound)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, companyToResponse(company))
}

// Update validates the body before looking the company up, so an invalid
// body is reported even for an unknown id.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	in, err := decodeInput(r)
	if err != nil {
		mapServiceError(w, h.logger, err, companyNotFound)
		return
	}

	if _, err := h.service.UpdateCompany(r.Context(), parseID(pathParams, "id"), in); err != nil {
		mapServiceError(w, h.logger, err, companyNotFound)
		return
	}
	respondMessage(w, h.logger, http.StatusOK, "Company details updated")
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	if err := h.service.DeleteCompany(r.Context(), parseID(pathParams, "id")); err != nil {
		mapServiceError(w, h.logger, err, companyNotFound)
		return
	}
	respondMessage(w, h.logger, http.StatusOK, "Company deleted successfully")
}

func (h *CompanyHandler) Information(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	stats, err := h.stats.CompanyStatistics(r.Context(), parseID(pathParams, "id"))
	if err != nil {
		mapServiceError(w, h.logger, err, companyNotFound)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, statisticsToResponse(stats))
}
