package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bobmcallan/xtrillion-portal/internal/client"
)

// Fixtures are the canned reports served by ReportStub, keyed by the value of
// the query's filter (country or fund name). Rows stay raw so their key order
// reaches the client unchanged.
type Fixtures struct {
	Countries map[string]json.RawMessage   `json:"countries"`
	Funds     map[string][]json.RawMessage `json:"funds"`
	// Failing entities answer with this HTTP status instead of rows.
	Failing map[string]int `json:"failing"`
}

// LoadFixtures reads a fixtures file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var f Fixtures
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return &f, nil
}

// DefaultFixturesPath returns tests/fixtures/reports.json under the project root.
func DefaultFixturesPath() string {
	return filepath.Join(FindProjectRoot(), "tests", "fixtures", "reports.json")
}

// ReportStub answers the report API's POST protocol from fixtures, paging
// rows the way the real service does.
type ReportStub struct {
	fixtures *Fixtures
}

// NewReportStub creates a stub serving f.
func NewReportStub(f *Fixtures) *ReportStub {
	return &ReportStub{fixtures: f}
}

func (s *ReportStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var env struct {
		SampleKey string `json:"sample_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, "bad envelope", http.StatusBadRequest)
		return
	}
	var q client.Query
	if err := json.Unmarshal([]byte(env.SampleKey), &q); err != nil {
		http.Error(w, "bad query", http.StatusBadRequest)
		return
	}

	entity := q.Filters[client.CountrySource.FilterKey]
	var rows []json.RawMessage
	switch q.Table {
	case client.CountrySource.Table:
		if rec, ok := s.fixtures.Countries[entity]; ok {
			rows = []json.RawMessage{rec}
		}
	case client.FundSource.Table:
		entity = q.Filters[client.FundSource.FilterKey]
		rows = s.fixtures.Funds[entity]
	default:
		http.Error(w, "unknown table "+q.Table, http.StatusNotFound)
		return
	}

	if status, ok := s.fixtures.Failing[entity]; ok {
		http.Error(w, "stub failure", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page(rows, q.Page, q.PageSize))
}

func page(rows []json.RawMessage, n, size int) []json.RawMessage {
	if size <= 0 {
		return rows
	}
	if n < 1 {
		n = 1
	}
	start := (n - 1) * size
	if start >= len(rows) {
		return []json.RawMessage{}
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
