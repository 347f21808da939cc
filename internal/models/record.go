// Package models holds the report shapes returned by the remote report API.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one flat row from the report API: a country report or a single
// fund holding. Values are JSON scalars (string, float64, bool) or nil.
type Record map[string]interface{}

// Has reports whether the field is present with a non-null value.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String returns the field as display text, or def when absent or null.
func (r Record) String(field, def string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return def
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return def
}

// Number returns the field as a float64, or def when absent, null or not
// numeric. Numeric strings are accepted since some report columns are text.
func (r Record) Number(field string, def float64) float64 {
	v, ok := r[field]
	if !ok || v == nil {
		return def
	}
	if f, ok := AsNumber(v); ok {
		return f
	}
	return def
}

// AsNumber converts a JSON scalar to float64. Strings are parsed leniently.
func AsNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// IsNumeric reports whether v is a JSON number (strings do not count).
func IsNumeric(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int64, json.Number:
		return true
	}
	return false
}
