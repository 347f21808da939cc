package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatFixed formats a float with exactly two decimal places, rounding half
// away from zero.
func FormatFixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPct formats a share (0..1) as a percentage with one decimal place.
func FormatPct(share float64) string {
	return decimal.NewFromFloat(share).Shift(2).StringFixed(1) + "%"
}

// FormatScalar renders a JSON scalar for display. Whole numbers drop the
// decimal part so ratings like 7 print as "7" rather than "7.000000".
func FormatScalar(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return decimal.NewFromFloat(x).String()
	case float32:
		return decimal.NewFromFloat32(x).String()
	case int:
		return fmt.Sprintf("%d", x)
	case int64:
		return fmt.Sprintf("%d", x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", x))
	}
}

// Slug lowercases a label and replaces runs of non-alphanumerics with "-".
func Slug(label string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
