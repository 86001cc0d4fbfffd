package validation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore answers lookups from a fixed set of "table.column=value" keys.
type fakeStore struct {
	rows    map[string]bool
	err     error
	lookups []string
}

func (f *fakeStore) Exists(_ context.Context, table, column string, value any) (bool, error) {
	key := table + "." + column + "=" + stringify(value)
	f.lookups = append(f.lookups, key)
	if f.err != nil {
		return false, f.err
	}
	return f.rows[key], nil
}

func stringify(v any) string {
	b, _ := json.Marshal(v)
	return strings.Trim(string(b), `"`)
}

func mustDecode(t *testing.T, body string) Input {
	t.Helper()
	in, err := DecodeInput(strings.NewReader(body))
	require.NoError(t, err)
	return in
}

func TestEngine_CompanyRules(t *testing.T) {
	store := &fakeStore{rows: map[string]bool{"companies.name=Taken": true}}
	engine := NewEngine(store)

	tests := []struct {
		name     string
		body     string
		expected Errors
	}{
		{
			name:     "valid",
			body:     `{"name":"Acme","email":"info@acme.com","website":"acme.com"}`,
			expected: Errors{},
		},
		{
			name:     "missing name uses the custom message",
			body:     ``,
			expected: Errors{"name": {"Company name is required"}},
		},
		{
			name:     "blank name counts as missing",
			body:     `{"name":"   "}`,
			expected: Errors{"name": {"Company name is required"}},
		},
		{
			name: "wrong types",
			body: `{"name":1,"email":"wrong value","website":2}`,
			expected: Errors{
				"name":    {"The name must be a string."},
				"email":   {"The email must be a valid email address."},
				"website": {"The website must be a string."},
			},
		},
		{
			name: "non string email fails both rules",
			body: `{"name":"Acme","email":3}`,
			expected: Errors{
				"email": {"The email must be a string.", "The email must be a valid email address."},
			},
		},
		{
			name:     "duplicate name",
			body:     `{"name":"Taken"}`,
			expected: Errors{"name": {"The name has already been taken."}},
		},
		{
			name:     "null optional fields are skipped",
			body:     `{"name":"Acme","email":null,"website":null}`,
			expected: Errors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := engine.Validate(context.Background(), CreateCompany, mustDecode(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, errs)
		})
	}
}

func TestEngine_EmployeeRules(t *testing.T) {
	store := &fakeStore{rows: map[string]bool{"companies.id=1": true}}
	engine := NewEngine(store)

	tests := []struct {
		name     string
		body     string
		expected Errors
	}{
		{
			name: "missing names",
			body: `{}`,
			expected: Errors{
				"first_name": {"Employee first name is required"},
				"last_name":  {"Employee last name is required"},
			},
		},
		{
			name: "field types",
			body: `{"first_name":"Employee name","last_name":"Employee surname","company_id":"wrong value","age":"wrong value","salary":"wrong value"}`,
			expected: Errors{
				"company_id": {"The company id must be an integer."},
				"age":        {"The age must be an integer."},
				"salary":     {"The salary must be a number."},
			},
		},
		{
			name:     "unknown company",
			body:     `{"first_name":"A","last_name":"B","company_id":999,"age":35,"salary":1050}`,
			expected: Errors{"company_id": {"The selected company id is invalid."}},
		},
		{
			name:     "known company as numeric string",
			body:     `{"first_name":"A","last_name":"B","company_id":"1","salary":"813.25"}`,
			expected: Errors{},
		},
		{
			name:     "fractional age",
			body:     `{"first_name":"A","last_name":"B","age":25.5}`,
			expected: Errors{"age": {"The age must be an integer."}},
		},
		{
			name:     "bad email",
			body:     `{"first_name":"A","last_name":"B","email":"not-an-email"}`,
			expected: Errors{"email": {"The email must be a valid email address."}},
		},
		{
			name:     "decimal salary",
			body:     `{"first_name":"A","last_name":"B","company_id":1,"email":"a@b.co","age":20,"salary":650.5}`,
			expected: Errors{},
		},
		{
			name: "values beyond the column bounds",
			body: `{"first_name":"A","last_name":"B","age":99999999999,"salary":1e12}`,
			expected: Errors{
				"age":    {"The age must be between -2147483648 and 2147483647."},
				"salary": {"The salary must be a number with at most 12 digits and 2 decimal places."},
			},
		},
		{
			name:     "salary with three decimal places",
			body:     `{"first_name":"A","last_name":"B","salary":"1.005"}`,
			expected: Errors{"salary": {"The salary must be a number with at most 12 digits and 2 decimal places."}},
		},
		{
			name:     "largest storable values",
			body:     `{"first_name":"A","last_name":"B","age":2147483647,"salary":-9999999999.99}`,
			expected: Errors{},
		},
		{
			name:     "trailing zeros do not count as places",
			body:     `{"first_name":"A","last_name":"B","salary":"12.500"}`,
			expected: Errors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := engine.Validate(context.Background(), CreateEmployee, mustDecode(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, errs)
		})
	}
}

func TestEngine_SkipsLookupAfterTypeFailure(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store)

	_, err := engine.Validate(context.Background(), UpdateEmployee, Input{
		"first_name": "A",
		"last_name":  "B",
		"company_id": "abc",
	})
	require.NoError(t, err)
	assert.Empty(t, store.lookups, "no lookup with a value that failed its type rule")

	_, err = engine.Validate(context.Background(), UpdateEmployee, Input{
		"first_name": "A",
		"last_name":  "B",
		"company_id": json.Number("7"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"companies.id=7"}, store.lookups)
}

func TestEngine_UpdateCompanyMatchesItself(t *testing.T) {
	store := &fakeStore{rows: map[string]bool{"companies.name=Acme": true}}
	errs, err := NewEngine(store).Validate(context.Background(), UpdateCompany, Input{"name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, Errors{"name": {"The name has already been taken."}}, errs)
}

func TestEngine_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	engine := NewEngine(&fakeStore{err: storeErr})

	errs, err := engine.Validate(context.Background(), CreateCompany, Input{"name": "Acme"})
	assert.Nil(t, errs)
	assert.ErrorIs(t, err, storeErr)
}

func TestRuleSet_Summarize(t *testing.T) {
	tests := []struct {
		name     string
		errs     Errors
		expected string
	}{
		{name: "none", errs: Errors{}, expected: ""},
		{name: "single", errs: Errors{"password": {"The password field is required."}}, expected: "The password field is required."},
		{
			name: "two",
			errs: Errors{
				"email":    {"The email field is required."},
				"password": {"The password field is required."},
			},
			expected: "The email field is required. (and 1 more error)",
		},
		{
			name: "three",
			errs: Errors{
				"email":    {"The email must be a string.", "The email must be a valid email address."},
				"password": {"The password field is required."},
			},
			expected: "The email must be a string. (and 2 more errors)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Login.Summarize(tt.errs))
		})
	}
}

func TestInputAccessors(t *testing.T) {
	in := mustDecode(t, `{"name":"Acme","company_id":12,"age":"30","salary":"1050.75","blank":"","missing":null}`)

	require.NotNil(t, in.String("name"))
	assert.Equal(t, "Acme", *in.String("name"))
	assert.Nil(t, in.String("blank"))
	assert.Nil(t, in.String("missing"))
	assert.Nil(t, in.String("company_id"))

	require.NotNil(t, in.Int64("company_id"))
	assert.Equal(t, int64(12), *in.Int64("company_id"))
	require.NotNil(t, in.Int("age"))
	assert.Equal(t, 30, *in.Int("age"))

	require.NotNil(t, in.Decimal("salary"))
	assert.Equal(t, "1050.75", in.Decimal("salary").String())
	assert.Nil(t, in.Decimal("name"))
}

func TestDecodeInput_Invalid(t *testing.T) {
	_, err := DecodeInput(strings.NewReader(`[1,2]`))
	assert.Error(t, err)

	_, err = DecodeInput(strings.NewReader(`{"name":`))
	assert.Error(t, err)
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{"b": {"second"}, "a": {"first", "again"}}
	assert.Equal(t, "validation failed: a: first again; b: second", errs.Error())
}
