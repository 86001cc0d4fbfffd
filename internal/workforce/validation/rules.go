// Package validation checks raw request fields against typed, per-operation
// rule sets and reports violations as field-level messages.
package validation

import (
	"fmt"
	"strings"
)

// Kind enumerates the rule descriptors understood by the Engine.
type Kind int

const (
	Required Kind = iota
	IsString
	IsInteger
	IsNumeric
	IsEmail
	Unique
	Exists
	Between
	Precision
)

func (k Kind) String() string {
	switch k {
	case Required:
		return "required"
	case IsString:
		return "string"
	case IsInteger:
		return "integer"
	case IsNumeric:
		return "numeric"
	case IsEmail:
		return "email"
	case Unique:
		return "unique"
	case Exists:
		return "exists"
	case Between:
		return "between"
	case Precision:
		return "precision"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Rule is one check applied to a field. Table and Column are only used by
// Unique and Exists, Min and Max by Between, Digits and Places by Precision.
type Rule struct {
	Kind   Kind
	Table  string
	Column string
	Min    int64
	Max    int64
	Digits int32
	Places int32
}

// UniqueIn fails when table already has a row whose column equals the value.
func UniqueIn(table, column string) Rule {
	return Rule{Kind: Unique, Table: table, Column: column}
}

// ExistsIn fails when table has no row whose column equals the value.
func ExistsIn(table, column string) Rule {
	return Rule{Kind: Exists, Table: table, Column: column}
}

// InRange fails when an integer value lies outside [lo, hi]. Values that
// are not integers are left to IsInteger.
func InRange(lo, hi int64) Rule {
	return Rule{Kind: Between, Min: lo, Max: hi}
}

// FitsNumeric fails when a number has more than places fractional digits or
// more than digits digits in total, matching a NUMERIC(digits, places)
// column. Values that are not numbers are left to IsNumeric.
func FitsNumeric(digits, places int32) Rule {
	return Rule{Kind: Precision, Digits: digits, Places: places}
}

// Field lists the rules of one input field in evaluation order.
type Field struct {
	Name  string
	Rules []Rule
	// RequiredMessage replaces the generic message of a failed Required rule.
	RequiredMessage string
}

func (f Field) has(kind Kind) bool {
	for _, r := range f.Rules {
		if r.Kind == kind {
			return true
		}
	}
	return false
}

// RuleSet is the named collection of field rules for one operation.
type RuleSet struct {
	Name   string
	Fields []Field
}

// Summarize renders errs as a single sentence: the first message in field
// order followed by a count of the remaining ones.
func (rs *RuleSet) Summarize(errs Errors) string {
	var first string
	total := 0
	for _, f := range rs.Fields {
		msgs := errs[f.Name]
		if first == "" && len(msgs) > 0 {
			first = msgs[0]
		}
		total += len(msgs)
	}
	switch rest := total - 1; {
	case first == "":
		return ""
	case rest == 0:
		return first
	case rest == 1:
		return first + " (and 1 more error)"
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

func message(rule Rule, field string) string {
	name := strings.ReplaceAll(field, "_", " ")
	switch rule.Kind {
	case Required:
		return fmt.Sprintf("The %s field is required.", name)
	case IsString:
		return fmt.Sprintf("The %s must be a string.", name)
	case IsInteger:
		return fmt.Sprintf("The %s must be an integer.", name)
	case IsNumeric:
		return fmt.Sprintf("The %s must be a number.", name)
	case IsEmail:
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case Unique:
		return fmt.Sprintf("The %s has already been taken.", name)
	case Exists:
		return fmt.Sprintf("The selected %s is invalid.", name)
	case Between:
		return fmt.Sprintf("The %s must be between %d and %d.", name, rule.Min, rule.Max)
	case Precision:
		return fmt.Sprintf("The %s must be a number with at most %d digits and %d decimal places.", name, rule.Digits, rule.Places)
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}
