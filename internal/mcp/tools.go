package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/config"
	"github.com/bobmcallan/xtrillion-portal/internal/interfaces"
)

// ServerName is the MCP implementation name reported to clients.
const ServerName = "xtrillion-portal"

// NewServer creates an MCP server with every report tool registered.
func NewServer(cfg *config.Config, src interfaces.ReportSource, logger *common.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		config.GetVersion(),
		server.WithToolCapabilities(true),
	)
	n := RegisterTools(s, cfg, src, logger)
	logger.Debug().Int("tools", n).Msg("MCP tools registered")
	return s
}

// RegisterTools adds the report tools to s and returns how many were added.
func RegisterTools(s *server.MCPServer, cfg *config.Config, src interfaces.ReportSource, logger *common.Logger) int {
	tools := []server.ServerTool{
		{Tool: CountryReportTool(), Handler: CountryReportHandler(cfg.Dashboard, src, logger)},
		{Tool: FundHoldingsTool(), Handler: FundHoldingsHandler(cfg.Dashboard, src, logger)},
		{Tool: ListDashboardsTool(), Handler: ListDashboardsHandler(cfg.Dashboard.Tabs)},
		{Tool: VersionTool(), Handler: VersionToolHandler(cfg.Reports.URL)},
	}
	s.AddTools(tools...)
	return len(tools)
}

// CountryReportTool returns the get_country_report tool definition.
func CountryReportTool() mcp.Tool {
	return mcp.NewTool("get_country_report",
		mcp.WithDescription("Get the credit research report for a country as markdown: country information, SWOT analysis, rating agency comments, conclusion and the 2024-2029 economic indicators."),
		mcp.WithString("country", mcp.Required(), mcp.Description("Country name, dashboard label or slug, e.g. Israel or saudi-arabia")),
	)
}

// FundHoldingsTool returns the get_fund_holdings tool definition.
func FundHoldingsTool() mcp.Tool {
	return mcp.NewTool("get_fund_holdings",
		mcp.WithDescription("Get a fund's holdings as markdown: region, NFA and ESG distributions of weighting plus the holdings table, optionally filtered."),
		mcp.WithString("fund", mcp.Required(), mcp.Description("Fund name, dashboard label or slug, e.g. SKEWNBF or Shin Kong Emerging Wealthy Nations Bond Fund")),
		mcp.WithString("region", mcp.Description("Comma-separated regions to keep")),
		mcp.WithString("nfa_rating", mcp.Description("Comma-separated NFA star ratings to keep (Cash for unrated)")),
		mcp.WithString("esg_rating", mcp.Description("Comma-separated ESG country star ratings to keep (Cash for unrated)")),
		mcp.WithNumber("min_weighting", mcp.Description("Lowest weighting to keep")),
		mcp.WithNumber("max_weighting", mcp.Description("Highest weighting to keep")),
	)
}

// ListDashboardsTool returns the list_dashboards tool definition.
func ListDashboardsTool() mcp.Tool {
	return mcp.NewTool("list_dashboards",
		mcp.WithDescription("List the configured dashboard tabs with their kind (country or fund) and entity."),
	)
}
