package mcp

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/xtrillion-portal/internal/client"
	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/config"
	"github.com/bobmcallan/xtrillion-portal/internal/filter"
	"github.com/bobmcallan/xtrillion-portal/internal/interfaces"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
	"github.com/bobmcallan/xtrillion-portal/internal/report"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

// resolveEntity maps a dashboard label or slug onto the entity name the
// report API is keyed by, returning the display label alongside. Names that
// match no tab pass through unchanged.
func resolveEntity(dash config.DashboardConfig, kind, name string) (entity, label string) {
	if tab, ok := dash.FindTab(kind, name); ok {
		return tab.Entity, tab.DisplayLabel()
	}
	return name, name
}

// CountryReportHandler renders one country report as markdown. An unknown
// country is a normal result carrying the no-data message.
func CountryReportHandler(dash config.DashboardConfig, src interfaces.ReportSource, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := strings.TrimSpace(r.GetString("country", ""))
		if name == "" {
			return errorResult("Error: country parameter is required"), nil
		}
		country, _ := resolveEntity(dash, config.KindCountry, name)
		logger := common.LoggerFrom(ctx, logger)

		rec, ok, err := src.CountryReport(ctx, country)
		if err != nil {
			logger.Warn().Str("country", country).Err(err).Msg("MCP country report fetch failed")
			return errorResult(client.FetchFailure(country, err)), nil
		}
		if !ok {
			return textResult(client.NoData(country)), nil
		}

		doc := report.Render(rec)
		return textResult(report.Markdown(doc) + report.EconomicMarkdown(report.EconomicSeries(rec))), nil
	}
}

// FundHoldingsHandler renders a fund's distributions and its (optionally
// filtered) holdings as markdown. Distributions always cover the whole fund.
func FundHoldingsHandler(dash config.DashboardConfig, src interfaces.ReportSource, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := strings.TrimSpace(r.GetString("fund", ""))
		if name == "" {
			return errorResult("Error: fund parameter is required"), nil
		}
		fund, label := resolveEntity(dash, config.KindFund, name)
		logger := common.LoggerFrom(ctx, logger)

		t, err := src.FundHoldings(ctx, fund)
		if err != nil {
			logger.Warn().Str("fund", fund).Err(err).Msg("MCP fund holdings fetch failed")
			return errorResult(client.FetchFailure(fund, err)), nil
		}
		if t.Len() == 0 {
			return textResult(client.NoData(fund)), nil
		}

		norm := t.NormalizeRatings(models.ColumnNFARating, models.ColumnESGRating)
		filtered := filter.Apply(norm, report.FundFilterColumns, selectionFromRequest(r))
		return textResult(report.HoldingsMarkdown(label, filtered, report.FundPies(t))), nil
	}
}

// selectionFromRequest maps the optional tool arguments onto a filter selection.
func selectionFromRequest(r mcp.CallToolRequest) filter.Selection {
	sel := filter.Selection{
		Ranges: make(map[string]filter.Range),
		Sets:   make(map[string][]string),
	}
	for arg, col := range map[string]string{
		"region":     models.ColumnRegion,
		"nfa_rating": models.ColumnNFARating,
		"esg_rating": models.ColumnESGRating,
	} {
		if vals := splitArg(r.GetString(arg, "")); len(vals) > 0 {
			sel.Sets[col] = vals
		}
	}

	lo := r.GetFloat("min_weighting", math.Inf(-1))
	hi := r.GetFloat("max_weighting", math.Inf(1))
	if !math.IsInf(lo, -1) || !math.IsInf(hi, 1) {
		sel.Ranges[models.ColumnWeighting] = filter.Range{Lo: lo, Hi: hi}
	}
	return sel
}

func splitArg(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// dashboardEntry is one tab as reported by list_dashboards.
type dashboardEntry struct {
	Label  string `json:"label"`
	Slug   string `json:"slug"`
	Kind   string `json:"kind"`
	Entity string `json:"entity"`
}

// ListDashboardsHandler returns the configured tabs as JSON.
func ListDashboardsHandler(tabs []config.TabConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries := make([]dashboardEntry, 0, len(tabs))
		for _, tab := range tabs {
			entries = append(entries, dashboardEntry{
				Label:  tab.DisplayLabel(),
				Slug:   tab.Slug(),
				Kind:   tab.Kind,
				Entity: tab.Entity,
			})
		}
		out, err := json.Marshal(entries)
		if err != nil {
			return errorResult("failed to marshal dashboards"), nil
		}
		return textResult(string(out)), nil
	}
}
