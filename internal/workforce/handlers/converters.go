package handlers

import (
	"time"

	"github.com/gartstein/workforce/internal/pkg/utils"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/shopspring/decimal"
)

type companyResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Website   *string   `json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type employeeResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CompanyID *int64    `json:"company_id"`
	Email     *string   `json:"email"`
	Age       *int      `json:"age"`
	Salary    *float64  `json:"salary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type statisticsResponse struct {
	AverageSalary *float64 `json:"average_salary"`
	AverageAge    *float64 `json:"average_age"`
	MaxSalary     *float64 `json:"max_salary"`
	MinSalary     *float64 `json:"min_salary"`
	MaxAge        *int     `json:"max_age"`
	MinAge        *int     `json:"min_age"`
}

type userResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type authorisation struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

type authResponse struct {
	Status        string        `json:"status"`
	User          userResponse  `json:"user"`
	Authorisation authorisation `json:"authorisation"`
}

type loginErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func companyToResponse(c *models.Company) companyResponse {
	return companyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Website:   c.Website,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func companiesToResponse(companies []*models.Company) []companyResponse {
	out := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyToResponse(c))
	}
	return out
}

func employeeToResponse(emp *models.Employee) employeeResponse {
	return employeeResponse{
		ID:        emp.ID,
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
		CompanyID: emp.CompanyID,
		Email:     emp.Email,
		Age:       emp.Age,
		Salary:    decimalToFloat(emp.Salary),
		CreatedAt: emp.CreatedAt,
		UpdatedAt: emp.UpdatedAt,
	}
}

func employeesToResponse(employees []*models.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(employees))
	for _, emp := range employees {
		out = append(out, employeeToResponse(emp))
	}
	return out
}

func statisticsToResponse(s *models.CompanyStatistics) statisticsResponse {
	return statisticsResponse{
		AverageSalary: decimalToFloat(s.AverageSalary),
		AverageAge:    decimalToFloat(s.AverageAge),
		MaxSalary:     decimalToFloat(s.MaxSalary),
		MinSalary:     decimalToFloat(s.MinSalary),
		MaxAge:        s.MaxAge,
		MinAge:        s.MinAge,
	}
}

func userToResponse(u *models.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// decimalToFloat renders decimals as JSON numbers.
func decimalToFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	return utils.Ptr(d.InexactFloat64())
}
