package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/workforce/internal/pkg/utils"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatisticsService aggregates employee data per company.
type StatisticsService struct {
	repo   StatisticsRepository
	logger *zap.Logger
}

func NewStatisticsService(repo StatisticsRepository, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{
		repo:   repo,
		logger: logger.Named("statistics_service"),
	}
}

// CompanyStatistics computes salary and age aggregates over the employees
// of the company.
func (s *StatisticsService) CompanyStatistics(ctx context.Context, companyID int64) (*models.CompanyStatistics, error) {
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

	stats := aggregate(employees)
	s.logger.Debug("Company statistics computed",
		zap.Int64("company_id", companyID),
		zap.Int("employees", len(employees)),
	)
	return stats, nil
}

// aggregate ignores missing values per aggregate. Averages are rounded
// half away from zero to two places.
func aggregate(employees []*models.Employee) *models.CompanyStatistics {
	var salaries, ages []decimal.Decimal
	stats := &models.CompanyStatistics{}

	for _, emp := range employees {
		if emp.Salary != nil {
			salaries = append(salaries, *emp.Salary)
		}
		if emp.Age != nil {
			age := *emp.Age
			ages = append(ages, decimal.NewFromInt(int64(age)))
			if stats.MaxAge == nil || age > *stats.MaxAge {
				stats.MaxAge = &age
			}
			if stats.MinAge == nil || age < *stats.MinAge {
				stats.MinAge = &age
			}
		}
	}

	if len(salaries) > 0 {
		stats.AverageSalary = utils.Ptr(decimal.Avg(salaries[0], salaries[1:]...).Round(2))
		stats.MaxSalary = utils.Ptr(decimal.Max(salaries[0], salaries[1:]...))
		stats.MinSalary = utils.Ptr(decimal.Min(salaries[0], salaries[1:]...))
	}
	if len(ages) > 0 {
		stats.AverageAge = utils.Ptr(decimal.Avg(ages[0], ages[1:]...).Round(2))
	}
	return stats
}
