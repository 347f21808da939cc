package app

import (
	"fmt"

	"github.com/bobmcallan/xtrillion-portal/internal/client"
	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/config"
	"github.com/bobmcallan/xtrillion-portal/internal/handlers"
	"github.com/bobmcallan/xtrillion-portal/internal/interfaces"
	"github.com/bobmcallan/xtrillion-portal/internal/mcp"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	// Reports is the remote report API every page and tool reads from.
	Reports interfaces.ReportSource

	// HTTP handlers
	PageHandler      *handlers.PageHandler
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	DashboardHandler *handlers.DashboardHandler
	CountryHandler   *handlers.EntityHandler
	FundHandler      *handlers.EntityHandler
	MCPHandler       *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.Reports = NewReportClient(cfg, logger)
	a.initHandlers()

	logger.Info().
		Str("reports_url", cfg.Reports.URL).
		Int("dashboards", len(cfg.Dashboard.Tabs)).
		Msg("application initialization complete")

	return a, nil
}

// NewReportClient builds the report API client from the [reports] section.
func NewReportClient(cfg *config.Config, logger *common.Logger) *client.ReportClient {
	r := cfg.Reports
	return client.NewReportClient(r.URL, r.Timeout.Duration,
		client.WithLogger(logger),
		client.WithCountrySource(client.Source{
			DBPath:    r.CountryDB,
			Table:     r.CountryTable,
			FilterKey: client.CountrySource.FilterKey,
			PageSize:  r.CountryPageSize,
			MaxPages:  r.CountryMaxPages,
		}),
		client.WithFundSource(client.Source{
			DBPath:    r.FundDB,
			Table:     r.FundTable,
			FilterKey: client.FundSource.FilterKey,
			PageSize:  r.FundPageSize,
			MaxPages:  client.FundSource.MaxPages,
		}),
	)
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PageHandler = handlers.NewPageHandler(a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.DashboardHandler = handlers.NewDashboardHandler(a.Logger, a.Config.Dashboard.Tabs, a.Reports)
	a.CountryHandler = handlers.NewEntityHandler(a.Logger, config.KindCountry, a.Reports)
	a.FundHandler = handlers.NewEntityHandler(a.Logger, config.KindFund, a.Reports)

	a.MCPHandler = mcp.NewHandler(a.Config, a.Reports, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
