package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Input is a flat mapping of field name to the raw decoded JSON value.
// Numbers are kept as json.Number.
type Input map[string]any

// DecodeInput reads a JSON object from r. An empty body yields an empty
// Input so that required-field rules report on it.
func DecodeInput(r io.Reader) (Input, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	in := Input{}
	if len(bytes.TrimSpace(body)) == 0 {
		return in, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return in, nil
}

// value returns the field value, treating null and blank strings as absent.
func (in Input) value(field string) (any, bool) {
	v, ok := in[field]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

// String returns the field as a string, nil when absent.
func (in Input) String(field string) *string {
	v, ok := in.value(field)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// Int64 returns the field as an int64, nil when absent or not integral.
func (in Input) Int64(field string) *int64 {
	v, ok := in.value(field)
	if !ok {
		return nil
	}
	n, ok := asInt64(v)
	if !ok {
		return nil
	}
	return &n
}

// Int returns the field as an int, nil when absent or not integral.
func (in Input) Int(field string) *int {
	n := in.Int64(field)
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

// Decimal returns the field as a decimal, nil when absent or not numeric.
func (in Input) Decimal(field string) *decimal.Decimal {
	v, ok := in.value(field)
	if !ok {
		return nil
	}
	s, ok := asNumber(v)
	if !ok {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
