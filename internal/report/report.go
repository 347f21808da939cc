// Package report turns a flat country report record into the structured
// document shown on the country dashboards.
package report

import (
	"github.com/bobmcallan/xtrillion-portal/internal/charts"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// NotAvailable is the default for any missing scalar field.
const NotAvailable = "N/A"

// DefaultTitle is used when the record carries no Title.
const DefaultTitle = "Credit Research Report"

// EconomicHeader heads the chart column of a country report.
const EconomicHeader = "Economic Data (2024 Onwards)"

// Field is a labeled value, rendered as "<strong>Label:</strong> Value" or as
// an h3 heading followed by a paragraph.
type Field struct {
	Label string
	Value string
}

// Section is one h2 block of the document. A section has either a Body
// paragraph, a list of inline Fields, or a list of Subsections.
type Section struct {
	Heading     string
	Body        string
	Fields      []Field
	Subsections []Field
}

// Document is a rendered country report.
type Document struct {
	Title    string
	Sections []Section
}

// Section returns the section with the given heading, if present.
func (d *Document) Section(heading string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return Section{}, false
}

type textSection struct {
	heading string
	field   string
	def     string
}

var narrative = []textSection{
	{"Overview", "Overview", "No overview available."},
	{"Politics", "PoliticalNews", "No political news available."},
	{"Strengths", "Strengths", "No strengths information available."},
	{"Weaknesses", "Weaknesses", "No weaknesses information available."},
	{"Opportunities", "Opportunities", "No opportunities information available."},
	{"Threats", "Threats", "No threats information available."},
	{"Recent News", "RecentNews", "No recent news available."},
}

// Render builds the report document. Every section is always present; missing
// or null fields fall back to their default text.
func Render(r models.Record) *Document {
	doc := &Document{Title: r.String("Title", DefaultTitle)}

	doc.Sections = append(doc.Sections, Section{
		Heading: "Country Information",
		Fields: []Field{
			{"Country", r.String("Country", NotAvailable)},
			{"Ownership", r.String("Ownership", NotAvailable)},
			{"NFA Rating", r.String("NFARating", NotAvailable)},
			{"ESG Rating", r.String("ESGRating", NotAvailable)},
		},
	})

	for _, n := range narrative {
		doc.Sections = append(doc.Sections, Section{
			Heading: n.heading,
			Body:    r.String(n.field, n.def),
		})
	}

	doc.Sections = append(doc.Sections, Section{
		Heading: "Ratings and Comments from Credit Rating Agencies",
		Subsections: []Field{
			{"Moody's", r.String("MoodysRating", NotAvailable)},
			{"S&P Global Ratings", r.String("SPGlobalRating", NotAvailable)},
			{"Fitch Ratings", r.String("FitchRating", NotAvailable)},
		},
	})

	doc.Sections = append(doc.Sections, Section{
		Heading: "Conclusion",
		Body:    r.String("Conclusion", "No conclusion available."),
	})
	return doc
}

// Metric is one economic indicator read from a report record.
type Metric struct {
	Label  string
	Prefix string
}

// Metrics lists the economic indicators in display order.
var Metrics = []Metric{
	{"GDP Growth (%)", "GDPGrowthRate"},
	{"Inflation Rate (%)", "Inflation"},
	{"Unemployment Rate (%)", "UnemploymentRate"},
	{"Population (millions)", "Population"},
	{"Government Budget Balance (% of GDP)", "GovernmentFinances"},
	{"Current Account Balance (% of GDP)", "CurrentAccountBalance"},
}

// Indicator is a metric series with its chart and year table.
type Indicator struct {
	Series models.Series
	Color  string
	Chart  *charts.BarChart
	Table  charts.YearTable
}

// EconomicSeries reads every metric off the record, pairing metric i with
// palette color i.
func EconomicSeries(r models.Record) []Indicator {
	out := make([]Indicator, len(Metrics))
	for i, m := range Metrics {
		s := models.SeriesFromRecord(r, m.Label, m.Prefix)
		color := charts.PaletteColor(i)
		out[i] = Indicator{
			Series: s,
			Color:  color,
			Chart:  charts.NewBarChart(s, m.Label, color),
			Table:  charts.NewYearTable(s),
		}
	}
	return out
}
