package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// AxisRange returns the padded y-axis range for a series.
//
// When every value has the same sign the padding is 5% of the spread on both
// ends. With mixed signs each end is padded by 5% of its own magnitude. An
// empty series gives [0, 0].
func AxisRange(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	m, M := values[0], values[0]
	for _, v := range values[1:] {
		m = math.Min(m, v)
		M = math.Max(M, v)
	}
	if m >= 0 || M <= 0 {
		pad := 0.05 * math.Abs(M-m)
		return m - pad, M + pad
	}
	return m - 0.05*math.Abs(m), M + 0.05*math.Abs(M)
}

// BarChart is one metric plotted over the projection years.
type BarChart struct {
	Title  string
	Color  string
	Series models.Series
	Min    float64
	Max    float64
	Height int
}

// NewBarChart builds a bar chart for series in the given color.
func NewBarChart(series models.Series, label, color string) *BarChart {
	lo, hi := AxisRange(series.Values)
	return &BarChart{
		Title:  label,
		Color:  color,
		Series: series,
		Min:    lo,
		Max:    hi,
		Height: barHeight,
	}
}

// SVG renders the chart as inline SVG markup.
func (b *BarChart) SVG() (template.HTML, error) {
	if len(b.Series.Values) == 0 {
		return "", fmt.Errorf("chart %q has no values", b.Title)
	}

	fill := hexColor(b.Color)
	bars := make([]chart.Value, len(b.Series.Values))
	for i, v := range b.Series.Values {
		label := ""
		if i < len(b.Series.Years) {
			label = strconv.Itoa(b.Series.Years[i])
		}
		bars[i] = chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 0},
		}
	}

	// A flat series still needs a non-empty axis to draw.
	lo, hi := b.Min, b.Max
	if hi-lo == 0 {
		lo, hi = lo-1, hi+1
	}

	bc := chart.BarChart{
		Title:      svgText(b.Title),
		TitleStyle: titleStyle(),
		Width:      barWidth,
		Height:     b.Height,
		BarWidth:   48,
		BarSpacing: 20,
		Background: backgroundStyle(),
		Canvas:     canvasStyle(),
		XAxis:      axisStyle(),
		YAxis: chart.YAxis{
			Style:          axisStyle(),
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: chart.FloatValueFormatter,
		},
		UseBaseValue: lo <= 0 && hi >= 0,
		BaseValue:    0,
		Bars:         bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("render bar chart %q: %w", b.Title, err)
	}
	return template.HTML(buf.String()), nil
}
