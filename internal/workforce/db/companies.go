package db

import (
	"context"
	"errors"
	"time"

	dbmodels "github.com/gartstein/workforce/internal/workforce/db/models"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"gorm.io/gorm"
)

func (r *Repository) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	var rows []dbmodels.Company
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	companies := make([]*models.Company, 0, len(rows))
	for i := range rows {
		companies = append(companies, companyFromRow(&rows[i]))
	}
	return companies, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	row := companyToRow(company)
	result := r.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	*company = *companyFromRow(row)
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	var row dbmodels.Company
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return companyFromRow(&row), nil
}

// UpdateCompany replaces name, email and website of the company with
// company.ID. Nil optional fields are written as NULL.
func (r *Repository) UpdateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("id = ?", company.ID).
		Updates(map[string]any{
			"name":       company.Name,
			"email":      company.Email,
			"website":    company.Website,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCompany(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func companyToRow(c *models.Company) *dbmodels.Company {
	return &dbmodels.Company{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Website:   c.Website,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func companyFromRow(row *dbmodels.Company) *models.Company {
	return &models.Company{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Website:   row.Website,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
