package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Holdings table column names used by the fund dashboards.
const (
	ColumnFundName  = "fund_name"
	ColumnRegion    = "region"
	ColumnNFARating = "nfa_star_rating"
	ColumnESGRating = "esg_country_star_rating"
	ColumnWeighting = "weighting"
)

// CashBucket is the rating bucket for holdings with no rating.
const CashBucket = "Cash"

// Table is an ordered set of rows with the column order seen in the payload.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable builds a table from rows, collecting columns in first-seen order.
// Column order within a row falls back to sorted keys since Go maps are
// unordered; use DecodeTable to keep the payload's key order.
func NewTable(rows []Record) *Table {
	t := &Table{Rows: rows}
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				t.Columns = append(t.Columns, k)
			}
		}
	}
	return t
}

// DecodeTable decodes a JSON array of flat objects, keeping the key order of
// the objects for the column list.
func DecodeTable(data []byte) (*Table, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	t := &Table{Rows: make([]Record, 0, len(raw))}
	seen := make(map[string]bool)
	for i, obj := range raw {
		keys, err := objectKeys(obj)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		var row Record
		if err := json.Unmarshal(obj, &row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				t.Columns = append(t.Columns, k)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(obj json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// HasColumn reports whether the column exists in the table schema.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// WithRows returns a table sharing the schema with a different row set.
func (t *Table) WithRows(rows []Record) *Table {
	return &Table{Columns: t.Columns, Rows: rows}
}

// NormalizeRatings returns a copy of the table where null or missing values
// in the given rating columns are replaced with CashBucket. Input rows are not
// modified.
func (t *Table) NormalizeRatings(cols ...string) *Table {
	rows := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		cp := make(Record, len(row)+len(cols))
		for k, v := range row {
			cp[k] = v
		}
		for _, c := range cols {
			if !cp.Has(c) {
				cp[c] = CashBucket
			}
		}
		rows[i] = cp
	}
	out := &Table{Columns: append([]string(nil), t.Columns...), Rows: rows}
	for _, c := range cols {
		if !out.HasColumn(c) {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}
