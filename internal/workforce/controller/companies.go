package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/workforce/internal/pkg/utils"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gartstein/workforce/internal/workforce/validation"
	"go.uber.org/zap"
)

// CompanyService manages companies.
type CompanyService struct {
	repo   CompanyRepository
	engine *validation.Engine
	logger *zap.Logger
}

func NewCompanyService(repo CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:   repo,
		engine: validation.NewEngine(repo),
		logger: logger.Named("company_service"),
	}
}

func (s *CompanyService) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// CreateCompany validates in and stores a new company. A name taken by a
// concurrent create is reported like any other uniqueness violation.
func (s *CompanyService) CreateCompany(ctx context.Context, in validation.Input) (*models.Company, error) {
	if err := validate(ctx, s.engine, validation.CreateCompany, in); err != nil {
		return nil, err
	}

	company := companyFromInput(in)
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrDuplicateName) {
			return nil, duplicateName()
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.logger.Info("Company created", zap.Int64("company_id", company.ID), zap.String("name", company.Name))
	return company, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// UpdateCompany validates in, then replaces every field of the company.
// Optional fields missing from in are cleared.
func (s *CompanyService) UpdateCompany(ctx context.Context, id int64, in validation.Input) (*models.Company, error) {
	if err := validate(ctx, s.engine, validation.UpdateCompany, in); err != nil {
		return nil, err
	}

	company := companyFromInput(in)
	company.ID = id
	if err := s.repo.UpdateCompany(ctx, company); err != nil {
		switch {
		case errors.Is(err, e.ErrNotFound):
			return nil, err
		case errors.Is(err, e.ErrDuplicateName):
			return nil, duplicateName()
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.logger.Info("Company updated", zap.Int64("company_id", id))
	return company, nil
}

// DeleteCompany removes the company. Its employees are kept.
func (s *CompanyService) DeleteCompany(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.logger.Info("Company deleted", zap.Int64("company_id", id))
	return nil
}

func companyFromInput(in validation.Input) *models.Company {
	return &models.Company{
		Name:    utils.Deref(in.String("name")),
		Email:   in.String("email"),
		Website: in.String("website"),
	}
}

func duplicateName() validation.Errors {
	return validation.Errors{"name": {"The name has already been taken."}}
}
