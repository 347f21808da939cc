package handlers

import (
	"context"
	"html/template"
	"net/url"

	"github.com/bobmcallan/xtrillion-portal/internal/charts"
	"github.com/bobmcallan/xtrillion-portal/internal/client"
	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/filter"
	"github.com/bobmcallan/xtrillion-portal/internal/interfaces"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
	"github.com/bobmcallan/xtrillion-portal/internal/report"
)

// IndicatorView is one economic metric: its chart and year table.
type IndicatorView struct {
	Label      string
	Color      string
	SVG        template.HTML
	ChartError string
	Table      charts.YearTable
}

// CountryView is everything the country report template needs.
type CountryView struct {
	Entity     string
	Error      string
	NoData     string
	Doc        *report.Document
	Header     string
	Indicators []IndicatorView
}

// PieView is one rendered holdings distribution.
type PieView struct {
	Title      string
	SVG        template.HTML
	ChartError string
	Slices     []charts.Slice
}

// ControlView is a filter control with the query parameter it submits as.
type ControlView struct {
	filter.Control
	Param     string
	IsNumeric bool
}

// FundView is everything the fund report template needs.
type FundView struct {
	Entity   string
	Label    string
	Scope    string
	Action   string
	Tab      string
	Error    string
	NoData   string
	Pies     []PieView
	Controls []ControlView
	Filtered bool
	Columns  []string
	Rows     [][]string
	Total    int
}

// BuildCountryView fetches and shapes one country report. Fetch failures and
// empty results become messages on the view, never errors.
func BuildCountryView(ctx context.Context, src interfaces.ReportSource, logger *common.Logger, country string) *CountryView {
	v := &CountryView{Entity: country, Header: report.EconomicHeader}
	logger = common.LoggerFrom(ctx, logger)

	rec, ok, err := src.CountryReport(ctx, country)
	if err != nil {
		logger.Warn().Str("country", country).Err(err).Msg("Country report fetch failed")
		v.Error = client.FetchFailure(country, err)
		return v
	}
	if !ok {
		v.NoData = client.NoData(country)
		return v
	}

	v.Doc = report.Render(rec)
	for _, ind := range report.EconomicSeries(rec) {
		iv := IndicatorView{Label: ind.Series.Label, Color: ind.Color, Table: ind.Table}
		svg, err := ind.Chart.SVG()
		if err != nil {
			logger.Warn().Str("country", country).Str("metric", iv.Label).Err(err).Msg("Chart render failed")
			iv.ChartError = "Chart unavailable."
		} else {
			iv.SVG = svg
		}
		v.Indicators = append(v.Indicators, iv)
	}
	return v
}

// BuildFundView fetches one fund's holdings, renders its distributions and
// applies the filter controls found in query under scope.
func BuildFundView(ctx context.Context, src interfaces.ReportSource, logger *common.Logger, label, fund, scope string, query url.Values) *FundView {
	v := &FundView{Entity: fund, Label: label, Scope: scope}
	logger = common.LoggerFrom(ctx, logger)

	t, err := src.FundHoldings(ctx, fund)
	if err != nil {
		logger.Warn().Str("fund", fund).Err(err).Msg("Fund holdings fetch failed")
		v.Error = client.FetchFailure(fund, err)
		return v
	}
	if t.Len() == 0 {
		v.NoData = client.NoData(fund)
		return v
	}

	for _, p := range report.FundPies(t) {
		pv := PieView{Title: p.Title, Slices: p.Slices}
		svg, err := p.SVG()
		if err != nil {
			logger.Warn().Str("fund", fund).Str("chart", p.Title).Err(err).Msg("Chart render failed")
			pv.ChartError = "Chart unavailable."
		} else {
			pv.SVG = svg
		}
		v.Pies = append(v.Pies, pv)
	}

	norm := t.NormalizeRatings(models.ColumnNFARating, models.ColumnESGRating)
	sel := filter.ParseSelection(query, scope, report.FundFilterColumns)
	for _, c := range filter.Controls(norm, report.FundFilterColumns, sel) {
		v.Controls = append(v.Controls, ControlView{
			Control:   c,
			Param:     filter.ParamName(scope, c.Column),
			IsNumeric: c.Kind == filter.Numeric,
		})
		if c.Active() {
			v.Filtered = true
		}
	}

	filtered := filter.Apply(norm, report.FundFilterColumns, sel)
	v.Total = norm.Len()
	v.Columns = filtered.Columns
	for _, row := range filtered.Rows {
		cells := make([]string, len(filtered.Columns))
		for i, c := range filtered.Columns {
			cells[i] = common.FormatScalar(row[c])
		}
		v.Rows = append(v.Rows, cells)
	}
	return v
}
