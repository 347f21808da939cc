package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/xtrillion-portal/internal/app"
	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/config"
	"github.com/bobmcallan/xtrillion-portal/internal/mcp"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

func main() {
	var configFiles configPaths
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	addr := flag.String("addr", ":8502", "Listen address for the streamable HTTP transport")
	reportsURL := flag.String("reports-url", "", "Report API endpoint (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, 0, "", *reportsURL)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol in stdio mode
	if *stdio {
		cfg.Logging.Outputs = []string{"file"}
	}
	logger := common.NewLoggerFromConfig(cfg.Logging)

	mcpServer := mcp.NewServer(cfg, app.NewReportClient(cfg, logger), logger)

	if *stdio {
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	logger.Info().Str("addr", *addr).Str("reports_url", cfg.Reports.URL).Msg("Starting MCP Streamable HTTP")

	if err := httpServer.Start(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
