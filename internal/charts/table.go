package charts

import (
	"strconv"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// YearTable is the two-row table printed under each bar chart: a Year header
// followed by the metric's values.
type YearTable struct {
	Header []string
	Label  string
	Cells  []string
}

// NewYearTable formats a series with two decimals per year, "N/A" where the
// record held a null.
func NewYearTable(s models.Series) YearTable {
	t := YearTable{
		Header: make([]string, len(s.Years)),
		Label:  s.Label,
		Cells:  make([]string, len(s.Values)),
	}
	for i, y := range s.Years {
		t.Header[i] = strconv.Itoa(y)
	}
	for i, v := range s.Values {
		if i < len(s.Missing) && s.Missing[i] {
			t.Cells[i] = "N/A"
			continue
		}
		t.Cells[i] = common.FormatFixed(v)
	}
	return t
}
