package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/xtrillion-portal/internal/config"
)

// versionResult is the get_version payload.
type versionResult struct {
	Portal     config.VersionInfo `json:"xtrillion_portal"`
	ReportsURL string             `json:"reports_url"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the portal version and the report service it reads from. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports the build version and the configured report URL.
func VersionToolHandler(reportsURL string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionResult{
			Portal:     config.GetVersionInfo(),
			ReportsURL: reportsURL,
		})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return textResult(string(out)), nil
	}
}
