package interfaces

import (
	"context"

	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// ReportSource provides the remote reports rendered by the dashboards and the
// MCP tools. client.ReportClient is the production implementation.
type ReportSource interface {
	// CountryReport returns the report record for a country. The bool is
	// false when the source has no report for it.
	CountryReport(ctx context.Context, country string) (models.Record, bool, error)
	// FundHoldings returns the holdings of a fund, possibly empty.
	FundHoldings(ctx context.Context, fund string) (*models.Table, error)
}
