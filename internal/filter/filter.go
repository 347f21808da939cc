// Package filter narrows a holdings table by per-column controls.
//
// Each requested column gets a control inferred from its values: a numeric
// range when every non-null value is a number, otherwise a categorical
// membership set over the distinct string values. A control left at its
// default position (full observed range, or every option selected) is
// inactive and keeps every row, including rows with a null in that column.
package filter

import (
	"math"
	"net/url"
	"sort"
	"strconv"

	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// Kind is the predicate family inferred for a column.
type Kind int

const (
	// Categorical filters by membership in a set of string values.
	Categorical Kind = iota
	// Numeric filters by an inclusive [lo, hi] range.
	Numeric
)

// Range is an inclusive numeric bound.
type Range struct {
	Lo float64
	Hi float64
}

// Selection is the control state for one request. A column with no entry is
// at its default.
type Selection struct {
	Ranges map[string]Range
	Sets   map[string][]string
}

// Control describes one column's filter control and its current state.
type Control struct {
	Column  string
	Label   string
	Kind    Kind
	Min     float64
	Max     float64
	Step    float64
	Options []string

	Lo       float64
	Hi       float64
	Selected map[string]bool
}

// Active reports whether the control narrows the row set.
func (c Control) Active() bool {
	switch c.Kind {
	case Numeric:
		return c.Lo > c.Min || c.Hi < c.Max
	default:
		if len(c.Selected) < len(c.Options) {
			return true
		}
		for _, o := range c.Options {
			if !c.Selected[o] {
				return true
			}
		}
		return false
	}
}

// Match reports whether a row passes this control.
func (c Control) Match(row models.Record) bool {
	if !c.Active() {
		return true
	}
	v, ok := row[c.Column]
	if !ok || v == nil {
		return false
	}
	switch c.Kind {
	case Numeric:
		f, ok := models.AsNumber(v)
		return ok && f >= c.Lo && f <= c.Hi
	default:
		return c.Selected[row.String(c.Column, "")]
	}
}

// Infer builds the default control for a column. ok is false when the column
// is not in the table.
func Infer(t *models.Table, column string) (Control, bool) {
	if t == nil || !t.HasColumn(column) {
		return Control{}, false
	}

	c := Control{Column: column, Label: column}

	numeric := true
	seenValue := false
	lo, hi := math.Inf(1), math.Inf(-1)
	distinct := make(map[string]bool)
	for _, row := range t.Rows {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		seenValue = true
		distinct[row.String(column, "")] = true
		if !models.IsNumeric(v) {
			numeric = false
			continue
		}
		f, _ := models.AsNumber(v)
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}

	if numeric && seenValue {
		c.Kind = Numeric
		c.Min, c.Max = lo, hi
		c.Step = (hi - lo) / 100
		c.Lo, c.Hi = lo, hi
		return c, true
	}

	c.Kind = Categorical
	c.Options = make([]string, 0, len(distinct))
	for v := range distinct {
		c.Options = append(c.Options, v)
	}
	sort.Strings(c.Options)
	c.Selected = make(map[string]bool, len(c.Options))
	for _, o := range c.Options {
		c.Selected[o] = true
	}
	return c, true
}

// Controls returns the controls for the requested columns with the selection
// applied. Unknown columns are skipped.
func Controls(t *models.Table, columns []string, sel Selection) []Control {
	var out []Control
	for _, col := range columns {
		c, ok := Infer(t, col)
		if !ok {
			continue
		}
		switch c.Kind {
		case Numeric:
			if r, ok := sel.Ranges[col]; ok {
				if !math.IsInf(r.Lo, -1) {
					c.Lo = r.Lo
				}
				if !math.IsInf(r.Hi, 1) {
					c.Hi = r.Hi
				}
			}
		default:
			if vals, ok := sel.Sets[col]; ok {
				c.Selected = make(map[string]bool, len(vals))
				for _, v := range vals {
					c.Selected[v] = true
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// Apply returns the rows of t that pass every control for columns. The
// returned table shares t's schema; t itself is not modified.
func Apply(t *models.Table, columns []string, sel Selection) *models.Table {
	if t == nil {
		return nil
	}
	controls := Controls(t, columns, sel)
	rows := make([]models.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		keep := true
		for _, c := range controls {
			if !c.Match(row) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows)
}

// ParamName returns the query parameter for a column within a scope.
func ParamName(scope, column string) string {
	if scope == "" {
		return column
	}
	return scope + "." + column
}

// ParseSelection reads control state from query parameters:
//
//	<scope>.<col>.min, <scope>.<col>.max   numeric bounds
//	<scope>.<col> (repeated)               selected categories
//	<scope>.<col>.set                      marks a submitted category list,
//	                                       so an empty list means "none"
//
// Malformed numbers are ignored and leave that bound at its default.
func ParseSelection(values url.Values, scope string, columns []string) Selection {
	sel := Selection{
		Ranges: make(map[string]Range),
		Sets:   make(map[string][]string),
	}
	for _, col := range columns {
		name := ParamName(scope, col)

		minStr, maxStr := values.Get(name+".min"), values.Get(name+".max")
		if minStr != "" || maxStr != "" {
			r := Range{Lo: math.Inf(-1), Hi: math.Inf(1)}
			if f, err := strconv.ParseFloat(minStr, 64); err == nil {
				r.Lo = f
			}
			if f, err := strconv.ParseFloat(maxStr, 64); err == nil {
				r.Hi = f
			}
			if !math.IsInf(r.Lo, -1) || !math.IsInf(r.Hi, 1) {
				sel.Ranges[col] = r
			}
		}

		if vals, ok := values[name]; ok || values.Get(name+".set") != "" {
			sel.Sets[col] = append([]string{}, vals...)
		}
	}
	return sel
}
