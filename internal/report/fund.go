package report

import (
	"strings"

	"github.com/bobmcallan/xtrillion-portal/internal/charts"
	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// Pie chart titles on the fund dashboards.
const (
	RegionTitle = "Region Distribution"
	NFATitle    = "NFA Star Rating Distribution"
	ESGTitle    = "ESG Country Star Rating Distribution"
	ESG6Title   = "ESG Ratings 6 or More"
)

// FundFilterColumns are the holdings columns offered as filter controls.
var FundFilterColumns = []string{
	models.ColumnRegion,
	models.ColumnNFARating,
	models.ColumnESGRating,
	models.ColumnWeighting,
}

// FundPies builds the four holdings distributions in display order. Unrated
// holdings are normalized to Cash first.
func FundPies(t *models.Table) []*charts.PieChart {
	if t == nil {
		t = &models.Table{}
	}
	norm := t.NormalizeRatings(models.ColumnNFARating, models.ColumnESGRating)
	return []*charts.PieChart{
		charts.NewPieChart(RegionTitle, norm, charts.ColumnBucket(models.ColumnRegion), models.ColumnWeighting),
		charts.NewPieChart(NFATitle, norm, charts.ColumnBucket(models.ColumnNFARating), models.ColumnWeighting),
		charts.NewPieChart(ESGTitle, norm, charts.ColumnBucket(models.ColumnESGRating), models.ColumnWeighting),
		charts.NewPieChart(ESG6Title, norm, charts.ESGThreshold, models.ColumnWeighting),
	}
}

func formatWeight(v float64) string {
	return common.FormatFixed(v)
}

func cellText(v interface{}) string {
	return strings.ReplaceAll(common.FormatScalar(v), "|", "\\|")
}
