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

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.firstUser(ctx, "email = ?", email)
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return r.firstUser(ctx, "id = ?", id)
}

func (r *Repository) firstUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var row dbmodels.User
	result := r.db.WithContext(ctx).First(&row, query, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return userFromRow(&row), nil
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	row := &dbmodels.User{
		Name:            user.Name,
		Email:           user.Email,
		Password:        user.PasswordHash,
		EmailVerifiedAt: user.EmailVerifiedAt,
	}
	result := r.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	*user = *userFromRow(row)
	return nil
}

func (r *Repository) UpdateUserCredentials(ctx context.Context, id int64, name, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       name,
			"password":   passwordHash,
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

func userFromRow(row *dbmodels.User) *models.User {
	return &models.User{
		ID:              row.ID,
		Name:            row.Name,
		Email:           row.Email,
		PasswordHash:    row.Password,
		EmailVerifiedAt: row.EmailVerifiedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
