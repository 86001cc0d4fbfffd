package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Store answers the lookups of the Unique and Exists rules against the
// current committed state of the database.
type Store interface {
	Exists(ctx context.Context, table, column string, value any) (bool, error)
}

// Errors maps a field name to its violation messages in rule order.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Engine evaluates rule sets against request input.
type Engine struct {
	store    Store
	validate *validator.Validate
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store:    store,
		validate: validator.New(),
	}
}

// Validate checks in against rs. The returned Errors is empty when every
// rule passed; the error is only set when a store lookup failed.
//
// A field that is missing, null or blank only runs its Required rule.
// Unique and Exists are skipped once a type rule of the same field failed.
func (en *Engine) Validate(ctx context.Context, rs *RuleSet, in Input) (Errors, error) {
	errs := Errors{}
	for _, f := range rs.Fields {
		value, ok := in.value(f.Name)
		if !ok {
			if f.has(Required) {
				msg := f.RequiredMessage
				if msg == "" {
					msg = message(Rule{Kind: Required}, f.Name)
				}
				errs.add(f.Name, msg)
			}
			continue
		}

		typeFailed := false
		for _, rule := range f.Rules {
			var passed bool
			switch rule.Kind {
			case Required:
				passed = true
			case IsString:
				_, passed = value.(string)
			case IsInteger:
				_, passed = asInt64(value)
			case IsNumeric:
				_, passed = asNumber(value)
			case IsEmail:
				s, isString := value.(string)
				passed = isString && en.validate.Var(s, "email") == nil
			case Between:
				n, isInt := asInt64(value)
				passed = !isInt || (n >= rule.Min && n <= rule.Max)
			case Precision:
				passed = fitsNumeric(value, rule.Digits, rule.Places)
			case Unique, Exists:
				if typeFailed {
					continue
				}
				found, err := en.store.Exists(ctx, rule.Table, rule.Column, lookupValue(f, value))
				if err != nil {
					return nil, fmt.Errorf("%s: %s lookup on %s.%s: %w", rs.Name, rule.Kind, rule.Table, rule.Column, err)
				}
				passed = found == (rule.Kind == Exists)
			}
			if !passed {
				if rule.Kind != Unique && rule.Kind != Exists {
					typeFailed = true
				}
				errs.add(f.Name, message(rule, f.Name))
			}
		}
	}
	return errs, nil
}

// lookupValue converts value to the column type implied by the field's
// type rules.
func lookupValue(f Field, value any) any {
	if f.has(IsInteger) {
		if n, ok := asInt64(value); ok {
			return n
		}
	}
	if n, ok := value.(json.Number); ok {
		return n.String()
	}
	return value
}

func fitsNumeric(value any, digits, places int32) bool {
	s, ok := asNumber(value)
	if !ok {
		return true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return true
	}
	if !d.Equal(d.Truncate(places)) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, digits-places))
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), true
		}
	}
	return 0, false
}

func asNumber(value any) (string, bool) {
	switch v := value.(type) {
	case json.Number:
		_, err := strconv.ParseFloat(v.String(), 64)
		return v.String(), err == nil
	case string:
		s := strings.TrimSpace(v)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || strings.ContainsAny(s, "xX_") {
			return "", false
		}
		return s, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}
