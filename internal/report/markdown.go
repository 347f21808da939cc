package report

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/xtrillion-portal/internal/charts"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// Markdown renders the document as markdown text.
func Markdown(doc *Document) string {
	var sb strings.Builder
	sb.WriteString("# " + doc.Title + "\n\n")
	for _, s := range doc.Sections {
		sb.WriteString("## " + s.Heading + "\n\n")
		for _, f := range s.Fields {
			sb.WriteString(fmt.Sprintf("**%s:** %s\n\n", f.Label, f.Value))
		}
		for _, sub := range s.Subsections {
			sb.WriteString(fmt.Sprintf("### %s:\n\n%s\n\n", sub.Label, sub.Value))
		}
		if s.Body != "" {
			sb.WriteString(s.Body + "\n\n")
		}
	}
	return sb.String()
}

// EconomicMarkdown renders the year tables of every metric as markdown.
func EconomicMarkdown(indicators []Indicator) string {
	var sb strings.Builder
	sb.WriteString("## " + EconomicHeader + "\n\n")
	for _, ind := range indicators {
		t := ind.Table
		sb.WriteString("| Year | " + strings.Join(t.Header, " | ") + " |\n")
		sb.WriteString("|---|" + strings.Repeat("---|", len(t.Header)) + "\n")
		sb.WriteString("| " + t.Label + " | " + strings.Join(t.Cells, " | ") + " |\n\n")
	}
	return sb.String()
}

// HoldingsMarkdown renders the fund distributions and the holdings table.
func HoldingsMarkdown(fund string, t *models.Table, pies []*charts.PieChart) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s Fund Report\n\n", fund))
	for _, p := range pies {
		sb.WriteString("## " + p.Title + "\n\n")
		sb.WriteString("| Bucket | Weighting | Share |\n|---|---|---|\n")
		for _, s := range p.Slices {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", s.Label, formatWeight(s.Value), s.Percent()))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("## Holdings (%d)\n\n", t.Len()))
	if t.Len() == 0 {
		return sb.String()
	}
	sb.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(t.Columns)) + "\n")
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = cellText(row[c])
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}
