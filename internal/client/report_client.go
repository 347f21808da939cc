package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// DefaultURL is the hosted report API endpoint.
const DefaultURL = "https://my-combined-app-vpljqiia2a-uc.a.run.app/process_json"

// Query selects rows from one table of the report API.
type Query struct {
	DBPath   string            `json:"db_path"`
	Table    string            `json:"table"`
	Filters  map[string]string `json:"filters"`
	Fields   string            `json:"fields"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// envelope is the request body: the query travels JSON-encoded inside a
// single string field.
type envelope struct {
	SampleKey string `json:"sample_key"`
}

// Source describes where one kind of report lives.
type Source struct {
	DBPath    string
	Table     string
	FilterKey string
	PageSize  int
	MaxPages  int
}

// Query builds the first-page query for entity.
func (s Source) Query(entity string) Query {
	return Query{
		DBPath:   s.DBPath,
		Table:    s.Table,
		Filters:  map[string]string{s.FilterKey: entity},
		Fields:   "*",
		Page:     1,
		PageSize: s.PageSize,
	}
}

// Default report sources.
var (
	CountrySource = Source{DBPath: "credit_research.db", Table: "FullReport", FilterKey: "Country", PageSize: 10, MaxPages: 2}
	FundSource    = Source{DBPath: "consolidated.db", Table: "fund_holdings", FilterKey: models.ColumnFundName, PageSize: 100, MaxPages: 1}
)

// ReportClient talks to the report API.
type ReportClient struct {
	url        string
	httpClient *http.Client
	logger     *common.Logger
	country    Source
	fund       Source
}

// Option configures a ReportClient.
type Option func(*ReportClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ReportClient) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *common.Logger) Option {
	return func(c *ReportClient) { c.logger = l }
}

// WithCountrySource overrides where country reports are read from.
func WithCountrySource(s Source) Option {
	return func(c *ReportClient) { c.country = s }
}

// WithFundSource overrides where fund holdings are read from.
func WithFundSource(s Source) Option {
	return func(c *ReportClient) { c.fund = s }
}

// NewReportClient creates a client for the report API at url.
func NewReportClient(url string, timeout time.Duration, opts ...Option) *ReportClient {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &ReportClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     common.NewSilentLogger(),
		country:    CountrySource,
		fund:       FundSource,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint this client posts to.
func (c *ReportClient) URL() string { return c.url }

// Fetch issues one request for q. An empty payload is an empty table, not an
// error. Transport failures return *TransportError, non-2xx responses return
// *RemoteError and unparseable bodies return *DecodeError. There is no retry.
func (c *ReportClient) Fetch(ctx context.Context, q Query) (*models.Table, error) {
	inner, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	body, err := json.Marshal(envelope{SampleKey: string(inner)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Str("table", q.Table).Int("page", q.Page).Err(err).Msg("Report API unreachable")
		return nil, &TransportError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &TransportError{URL: c.url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug().
		Str("table", q.Table).
		Int("page", q.Page).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Report API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(data)), 200)}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &models.Table{Rows: []models.Record{}}, nil
	}
	t, err := models.DecodeTable(trimmed)
	if err != nil {
		c.logger.Warn().Str("table", q.Table).Int("page", q.Page).Err(err).Msg("Report API response unreadable")
		return nil, &DecodeError{Err: err}
	}
	return t, nil
}

// FetchPages reads consecutive pages starting at q.Page. It stops after
// maxPages pages, on an empty page, or on a page shorter than q.PageSize.
// Rows identical to ones already collected are dropped, so a server that
// ignores the page number does not double the result.
func (c *ReportClient) FetchPages(ctx context.Context, q Query, maxPages int) (*models.Table, error) {
	if maxPages < 1 {
		maxPages = 1
	}
	if q.Page < 1 {
		q.Page = 1
	}

	var out *models.Table
	for i := 0; i < maxPages; i++ {
		page, err := c.Fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = page
		} else {
			out = merge(out, page)
		}
		if page.Len() == 0 || (q.PageSize > 0 && page.Len() < q.PageSize) {
			break
		}
		q.Page++
	}
	return out, nil
}

// CountryReport returns the first report row for country. The bool is false
// when the API has no report for it.
func (c *ReportClient) CountryReport(ctx context.Context, country string) (models.Record, bool, error) {
	t, err := c.FetchPages(ctx, c.country.Query(country), c.country.MaxPages)
	if err != nil {
		return nil, false, err
	}
	if t.Len() == 0 {
		return nil, false, nil
	}
	return t.Rows[0], true, nil
}

// FundHoldings returns the holdings table for fund.
func (c *ReportClient) FundHoldings(ctx context.Context, fund string) (*models.Table, error) {
	return c.FetchPages(ctx, c.fund.Query(fund), c.fund.MaxPages)
}

func merge(acc, page *models.Table) *models.Table {
	rows := acc.Rows
	for _, r := range page.Rows {
		if !containsRow(rows, r) {
			rows = append(rows, r)
		}
	}
	cols := acc.Columns
	for _, col := range page.Columns {
		if !acc.HasColumn(col) {
			cols = append(cols, col)
		}
	}
	return &models.Table{Columns: cols, Rows: rows}
}

func containsRow(rows []models.Record, r models.Record) bool {
	for _, existing := range rows {
		if reflect.DeepEqual(existing, r) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
