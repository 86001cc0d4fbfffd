package validation

import "math"

// Column bounds of employees.age (INTEGER) and employees.salary
// (NUMERIC(12,2)).
const (
	salaryDigits = 12
	salaryPlaces = 2
)

func companyRules(name string) *RuleSet {
	return &RuleSet{
		Name: name,
		Fields: []Field{
			{
				Name:            "name",
				Rules:           []Rule{{Kind: Required}, {Kind: IsString}, UniqueIn("companies", "name")},
				RequiredMessage: "Company name is required",
			},
			{Name: "email", Rules: []Rule{{Kind: IsString}, {Kind: IsEmail}}},
			{Name: "website", Rules: []Rule{{Kind: IsString}}},
		},
	}
}

func employeeRules(name string) *RuleSet {
	return &RuleSet{
		Name: name,
		Fields: []Field{
			{
				Name:            "first_name",
				Rules:           []Rule{{Kind: Required}, {Kind: IsString}},
				RequiredMessage: "Employee first name is required",
			},
			{
				Name:            "last_name",
				Rules:           []Rule{{Kind: Required}, {Kind: IsString}},
				RequiredMessage: "Employee last name is required",
			},
			{Name: "company_id", Rules: []Rule{{Kind: IsInteger}, ExistsIn("companies", "id")}},
			{Name: "email", Rules: []Rule{{Kind: IsEmail}}},
			{Name: "age", Rules: []Rule{{Kind: IsInteger}, InRange(math.MinInt32, math.MaxInt32)}},
			{Name: "salary", Rules: []Rule{{Kind: IsNumeric}, FitsNumeric(salaryDigits, salaryPlaces)}},
		},
	}
}

// Rule sets of the API operations. Update rules equal create rules; in
// particular the name uniqueness check of an update also matches the
// company being updated.
var (
	CreateCompany  = companyRules("create company")
	UpdateCompany  = companyRules("update company")
	CreateEmployee = employeeRules("create employee")
	UpdateEmployee = employeeRules("update employee")

	Login = &RuleSet{
		Name: "login",
		Fields: []Field{
			{Name: "email", Rules: []Rule{{Kind: Required}, {Kind: IsString}, {Kind: IsEmail}}},
			{Name: "password", Rules: []Rule{{Kind: Required}, {Kind: IsString}}},
		},
	}
)
