package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// UnknownBucket labels rows with no value in the bucketed column.
const UnknownBucket = "Unknown"

// ESG threshold bucket labels.
const (
	ESGAtLeastSix = "ESG >= 6"
	ESGBelowSix   = "ESG < 6 or Cash"
)

// Slice is one bucket of a distribution.
type Slice struct {
	Label string
	Value float64
	Share float64
}

// Percent returns the slice share formatted for display.
func (s Slice) Percent() string {
	return common.FormatPct(s.Share)
}

// Bucketer maps a row to a bucket label.
type Bucketer func(row models.Record) string

// ColumnBucket buckets rows by the string value of a column. Missing or null
// values fall into UnknownBucket; rating columns are normalized to Cash before
// they get here.
func ColumnBucket(column string) Bucketer {
	return func(row models.Record) string {
		return row.String(column, UnknownBucket)
	}
}

// ESGThreshold buckets rows by whether the ESG country rating is a number of
// at least 6. Unrated rows count as Cash and land below the threshold.
func ESGThreshold(row models.Record) string {
	v, ok := row[models.ColumnESGRating]
	if ok && models.IsNumeric(v) {
		if f, _ := models.AsNumber(v); f >= 6 {
			return ESGAtLeastSix
		}
	}
	return ESGBelowSix
}

// Distribution sums the numeric valueCol per bucket. Rows whose measure is
// missing or not numeric contribute nothing. Slices are ordered by value,
// largest first, then by label.
func Distribution(t *models.Table, bucket Bucketer, valueCol string) []Slice {
	if t == nil {
		return nil
	}
	sums := make(map[string]decimal.Decimal)
	var order []string
	total := decimal.Zero
	for _, row := range t.Rows {
		label := bucket(row)
		if _, ok := sums[label]; !ok {
			order = append(order, label)
			sums[label] = decimal.Zero
		}
		v, ok := row[valueCol]
		if !ok || v == nil {
			continue
		}
		f, ok := models.AsNumber(v)
		if !ok {
			continue
		}
		d := decimal.NewFromFloat(f)
		sums[label] = sums[label].Add(d)
		total = total.Add(d)
	}

	slices := make([]Slice, 0, len(order))
	for _, label := range order {
		s := Slice{Label: label, Value: sums[label].InexactFloat64()}
		if !total.IsZero() {
			s.Share = sums[label].Div(total).InexactFloat64()
		}
		slices = append(slices, s)
	}
	sort.SliceStable(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Label < slices[j].Label
	})
	return slices
}

// PieChart is a titled distribution.
type PieChart struct {
	Title  string
	Slices []Slice
	Size   int
}

// NewPieChart builds a pie chart over the distribution of valueCol by bucket.
func NewPieChart(title string, t *models.Table, bucket Bucketer, valueCol string) *PieChart {
	return &PieChart{
		Title:  title,
		Slices: Distribution(t, bucket, valueCol),
		Size:   pieSize,
	}
}

// SVG renders the pie chart as inline SVG markup. Slices are labeled with
// their name and percentage share.
func (p *PieChart) SVG() (template.HTML, error) {
	var values []chart.Value
	for i, s := range p.Slices {
		if s.Value <= 0 {
			continue
		}
		fill := hexColor(PaletteColor(i))
		values = append(values, chart.Value{
			Label: svgText(fmt.Sprintf("%s %s", s.Label, s.Percent())),
			Value: s.Value,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: hexColor(Background),
				StrokeWidth: 1,
				FontColor:   hexColor(Background),
				FontSize:    9,
			},
		})
	}
	if len(values) == 0 {
		return "", fmt.Errorf("pie chart %q has no positive values", p.Title)
	}

	pc := chart.PieChart{
		Title:      svgText(p.Title),
		TitleStyle: titleStyle(),
		Width:      p.Size,
		Height:     p.Size,
		Background: backgroundStyle(),
		Canvas:     canvasStyle(),
		Values:     values,
	}

	var buf bytes.Buffer
	if err := pc.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("render pie chart %q: %w", p.Title, err)
	}
	return template.HTML(buf.String()), nil
}
