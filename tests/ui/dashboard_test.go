package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commontest "github.com/bobmcallan/xtrillion-portal/tests/common"
)

// newBrowser opens a page context and screenshots it if the test fails.
func newBrowser(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := commontest.NewBrowserContext(commontest.BrowserConfigFromTest())
	t.Cleanup(func() {
		if t.Failed() {
			name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
			commontest.Screenshot(ctx, filepath.Join(commontest.GetScreenshotDir("failures"), name+".png"))
		}
		cancel()
	})
	return ctx
}

func TestDashboard_DefaultTabRendersCountryReport(t *testing.T) {
	ctx := newBrowser(t)
	errs := commontest.NewJSErrorCollector(ctx)

	require.NoError(t, commontest.NavigateAndWait(ctx, baseURL+"/", 0))

	tabs, err := commontest.TextsOf(ctx, "nav.tabs a.tab")
	require.NoError(t, err)
	assert.Equal(t, []string{"Israel", "Qatar", "Mexico", "Saudi Arabia", "SKEWNBF", "SKESBF"}, tabs)

	active, err := commontest.TextOf(ctx, "a.tab-active")
	require.NoError(t, err)
	assert.Equal(t, "Israel", active)

	headings, err := commontest.TextsOf(ctx, ".reportColumn h2")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Country Information", "Overview", "Politics", "Strengths", "Weaknesses",
		"Opportunities", "Threats", "Recent News",
		"Ratings and Comments from Credit Rating Agencies", "Conclusion",
	}, headings)

	charts, err := commontest.ElementCount(ctx, ".chartColumn figure.chart svg")
	require.NoError(t, err)
	assert.Equal(t, 6, charts)

	assert.Empty(t, errs.Errors())
}

func TestDashboard_SparseCountryShowsDefaults(t *testing.T) {
	ctx := newBrowser(t)
	require.NoError(t, commontest.NavigateAndWait(ctx, baseURL+"/?tab=qatar", 0))

	body, err := commontest.TextOf(ctx, ".reportColumn")
	require.NoError(t, err)
	assert.Contains(t, body, "LNG exporter with large sovereign assets.")
	assert.Contains(t, body, "No political news available.")
	assert.Contains(t, body, "No conclusion available.")
}

func TestDashboard_RemoteErrorIsInline(t *testing.T) {
	ctx := newBrowser(t)
	require.NoError(t, commontest.NavigateAndWait(ctx, baseURL+"/?tab=mexico", 0))

	msg, err := commontest.TextOf(ctx, ".alert-error")
	require.NoError(t, err)
	assert.Equal(t, "Failed to fetch data for Mexico. Status code: 500", msg)

	// the tab bar still renders
	n, err := commontest.ElementCount(ctx, "nav.tabs a.tab")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestDashboard_EmptyCountryShowsNoData(t *testing.T) {
	ctx := newBrowser(t)
	require.NoError(t, commontest.NavigateAndWait(ctx, baseURL+"/?tab=saudi-arabia", 0))

	msg, err := commontest.TextOf(ctx, ".alert-empty")
	require.NoError(t, err)
	assert.Equal(t, "No data found for Saudi Arabia.", msg)
}

func TestDashboard_FundTabPiesAndFilter(t *testing.T) {
	ctx := newBrowser(t)
	require.NoError(t, commontest.NavigateAndWait(ctx, baseURL+"/?tab=skewnbf", 0))

	pies, err := commontest.ElementCount(ctx, "figure.pie")
	require.NoError(t, err)
	assert.Equal(t, 4, pies)

	count, err := commontest.TextOf(ctx, ".row-count")
	require.NoError(t, err)
	assert.Equal(t, "Showing 4 of 4 holdings", count)

	// Untick Latin America and submit the GET form
	require.NoError(t, commontest.ClickNav(ctx, `fieldset[data-column="region"] input[value="Latin America"]`, 100))
	require.NoError(t, commontest.ClickNav(ctx, "form.filters button[type=submit]", 0))

	count, err = commontest.TextOf(ctx, ".row-count")
	require.NoError(t, err)
	assert.Equal(t, "Showing 3 of 4 holdings", count)

	reset, err := commontest.Exists(ctx, "form.filters a.reset")
	require.NoError(t, err)
	assert.True(t, reset, "expected a reset link once a filter is active")
}

func TestDashboard_EmptyFundShowsNoData(t *testing.T) {
	ctx := newBrowser(t)
	require.NoError(t, commontest.NavigateAndWait(ctx, baseURL+"/?tab=skesbf", 0))

	msg, err := commontest.TextOf(ctx, ".alert-empty")
	require.NoError(t, err)
	assert.Equal(t, "No data found for Shin Kong Environmental Sustainability Bond Fund.", msg)
}

func TestCountryPage_Standalone(t *testing.T) {
	ctx := newBrowser(t)
	require.NoError(t, commontest.NavigateAndWait(ctx, baseURL+"/country/Israel", 0))

	title, err := commontest.TextOf(ctx, ".reportColumn h1")
	require.NoError(t, err)
	assert.Equal(t, "Israel Credit Report", title)
}
