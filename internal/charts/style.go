// Package charts builds the bar charts, pie charts and year tables shown on
// the dashboards and renders them to inline SVG with go-chart.
package charts

import (
	"html"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is the series color cycle shared by every chart.
var Palette = []string{
	"#FFA500", // bright orange
	"#007FFF", // azure blue
	"#DC143C", // cherry red
	"#39FF14", // electric lime green
	"#00FFFF", // cyan
	"#DA70D6", // vivid purple
}

const (
	// Background is the page and plot background.
	Background = "#1f1f1f"
	// FontColor is used for titles, axes and labels.
	FontColor = "#ffffff"

	barHeight = 375
	barWidth  = 560
	pieSize   = 500
)

// PaletteColor returns the i-th palette color, wrapping around.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// hexColor converts "#RRGGBB" to a drawing color.
func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// svgText escapes remote text before it is written into SVG markup.
func svgText(s string) string {
	return html.EscapeString(s)
}

func backgroundStyle() chart.Style {
	return chart.Style{
		FillColor: hexColor(Background),
		Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 40},
	}
}

func canvasStyle() chart.Style {
	return chart.Style{FillColor: hexColor(Background)}
}

func titleStyle() chart.Style {
	return chart.Style{FontColor: hexColor(FontColor), FontSize: 13}
}

func axisStyle() chart.Style {
	return chart.Style{
		FontColor:   hexColor(FontColor),
		StrokeColor: hexColor(FontColor),
		FontSize:    9,
	}
}
