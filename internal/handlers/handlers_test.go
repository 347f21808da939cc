package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/xtrillion-portal/internal/client"
	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/config"
	"github.com/bobmcallan/xtrillion-portal/internal/models"
)

// fakeSource serves canned reports keyed by entity name.
type fakeSource struct {
	countries map[string]models.Record
	funds     map[string]*models.Table
	err       error
	calls     []string
}

func (f *fakeSource) CountryReport(ctx context.Context, country string) (models.Record, bool, error) {
	f.calls = append(f.calls, "country:"+country)
	if f.err != nil {
		return nil, false, f.err
	}
	rec, ok := f.countries[country]
	return rec, ok, nil
}

func (f *fakeSource) FundHoldings(ctx context.Context, fund string) (*models.Table, error) {
	f.calls = append(f.calls, "fund:"+fund)
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.funds[fund]; ok {
		return t, nil
	}
	return &models.Table{Rows: []models.Record{}}, nil
}

const testFund = "Shin Kong Emerging Wealthy Nations Bond Fund"

func newFakeSource() *fakeSource {
	return &fakeSource{
		countries: map[string]models.Record{
			"Israel": {
				"Title":              "Israel Credit Report",
				"Country":            "Israel",
				"Overview":           "Resilient economy.",
				"MoodysRating":       "A2",
				"GDPGrowthRateYear1": 2.0,
				"GDPGrowthRateYear2": -1.0,
				"InflationYear1":     3.25,
				"InflationYear2":     nil,
			},
		},
		funds: map[string]*models.Table{
			testFund: {
				Columns: []string{"security", "region", "nfa_star_rating", "esg_country_star_rating", "weighting"},
				Rows: []models.Record{
					{"security": "ISR 2030", "region": "Middle East", "nfa_star_rating": 4.0, "esg_country_star_rating": 7.0, "weighting": 40.0},
					{"security": "MEX 2031", "region": "Latin America", "nfa_star_rating": 3.0, "esg_country_star_rating": 5.0, "weighting": 50.0},
					{"security": "USD Cash", "region": "Cash", "nfa_star_rating": nil, "esg_country_star_rating": nil, "weighting": 10.0},
				},
			},
		},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthHandler_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil)

	w := get(t, handler, "/api/health")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
}

func TestHealthHandler_RejectsNonGET(t *testing.T) {
	handler := NewHealthHandler(nil)

	req := httptest.NewRequest("POST", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestVersionHandler_ReturnsJSON(t *testing.T) {
	handler := NewVersionHandler(nil)

	w := get(t, handler, "/api/version")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, key := range []string{"version", "build", "git_commit"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected %s field in response", key)
		}
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "bad input")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "error" || body["error"] != "bad input" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestDashboard_DefaultTabIsFirstCountry(t *testing.T) {
	src := newFakeSource()
	h := NewDashboardHandler(common.NewSilentLogger(), config.NewDefaultConfig().Dashboard.Tabs, src)

	w := get(t, h, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()

	for _, want := range []string{
		"Israel Report",
		"Israel Credit Report",
		"Country Information",
		"Resilient economy.",
		"No political news available.",
		"Moody&#39;s:",
		"S&amp;P Global Ratings:",
		"No conclusion available.",
		"Economic Data (2024 Onwards)",
		"<svg",
		"<td>3.25</td>",
		"<td>N/A</td>",
		`href="/?tab=skewnbf"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if len(src.calls) != 1 || src.calls[0] != "country:Israel" {
		t.Errorf("expected only the active tab to be fetched, got %v", src.calls)
	}
}

func TestDashboard_SectionsInOrder(t *testing.T) {
	h := NewDashboardHandler(nil, config.NewDefaultConfig().Dashboard.Tabs, newFakeSource())
	body := get(t, h, "/?tab=israel").Body.String()

	order := []string{"Country Information", "Overview", "Politics", "Strengths", "Weaknesses",
		"Opportunities", "Threats", "Recent News", "Ratings and Comments from Credit Rating Agencies", "Conclusion"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(body, ">"+heading+"</h2>")
		if idx < 0 {
			t.Fatalf("missing section %q", heading)
		}
		if idx < last {
			t.Errorf("section %q out of order", heading)
		}
		last = idx
	}
}

func TestDashboard_EmptyCountryPayload(t *testing.T) {
	h := NewDashboardHandler(nil, config.NewDefaultConfig().Dashboard.Tabs, newFakeSource())

	w := get(t, h, "/?tab=qatar")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No data found for Qatar.") {
		t.Errorf("expected no-data message, got %s", w.Body.String())
	}
}

func TestDashboard_EmptyFundPayload(t *testing.T) {
	h := NewDashboardHandler(nil, config.NewDefaultConfig().Dashboard.Tabs, newFakeSource())

	w := get(t, h, "/?tab=skesbf")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No data found for Shin Kong Environmental Sustainability Bond Fund.") {
		t.Errorf("expected no-data message")
	}
}

func TestDashboard_RemoteErrorMessage(t *testing.T) {
	src := newFakeSource()
	src.err = &client.RemoteError{StatusCode: 500}
	h := NewDashboardHandler(nil, config.NewDefaultConfig().Dashboard.Tabs, src)

	for _, tab := range []string{"mexico", "skewnbf"} {
		w := get(t, h, "/?tab="+tab)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected page to render with 200, got %d", tab, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "Failed to fetch data for") || !strings.Contains(body, "Status code: 500") {
			t.Errorf("%s: expected failure message with status code", tab)
		}
		if !strings.Contains(body, `class="tabs"`) {
			t.Errorf("%s: expected the rest of the page to render", tab)
		}
	}
}

func TestDashboard_UnknownTab(t *testing.T) {
	h := NewDashboardHandler(nil, config.NewDefaultConfig().Dashboard.Tabs, newFakeSource())
	w := get(t, h, "/?tab=atlantis")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDashboard_UnknownPath(t *testing.T) {
	h := NewDashboardHandler(nil, config.NewDefaultConfig().Dashboard.Tabs, newFakeSource())
	w := get(t, h, "/nope")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDashboard_FundTab(t *testing.T) {
	src := newFakeSource()
	h := NewDashboardHandler(nil, config.NewDefaultConfig().Dashboard.Tabs, src)

	w := get(t, h, "/?tab=skewnbf")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		testFund + " Fund Report",
		"Region Distribution",
		"NFA Star Rating Distribution",
		"ESG Country Star Rating Distribution",
		"ESG Ratings 6 or More",
		"ESG &gt;= 6",
		"Showing 3 of 3 holdings",
		`name="skewnbf.weighting.min"`,
		`name="skewnbf.region.set"`,
		`<input type="hidden" name="tab" value="skewnbf">`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if src.calls[0] != "fund:"+testFund {
		t.Errorf("expected fund fetch, got %v", src.calls)
	}
}

func TestDashboard_FundFilters(t *testing.T) {
	h := NewDashboardHandler(nil, config.NewDefaultConfig().Dashboard.Tabs, newFakeSource())

	body := get(t, h, "/?tab=skewnbf&skewnbf.region.set=1&skewnbf.region=Middle+East").Body.String()
	if !strings.Contains(body, "Showing 1 of 3 holdings") {
		t.Errorf("expected region filter to keep one row")
	}
	if !strings.Contains(body, "<td>ISR 2030</td>") || strings.Contains(body, "<td>MEX 2031</td>") {
		t.Error("expected only the Middle East holding")
	}

	body = get(t, h, "/?tab=skewnbf&skewnbf.weighting.min=20").Body.String()
	if !strings.Contains(body, "Showing 2 of 3 holdings") {
		t.Errorf("expected weighting filter to keep two rows")
	}

	body = get(t, h, "/?tab=skewnbf&skewnbf.nfa_star_rating.set=1&skewnbf.nfa_star_rating=Cash").Body.String()
	if !strings.Contains(body, "<td>USD Cash</td>") || !strings.Contains(body, "Showing 1 of 3 holdings") {
		t.Error("expected unrated holding to be selectable as Cash")
	}
}

func TestBuildFundView_PiesUseCash(t *testing.T) {
	v := BuildFundView(context.Background(), newFakeSource(), common.NewSilentLogger(), "SKEWNBF", testFund, "skewnbf", nil)
	if v.Error != "" || v.NoData != "" {
		t.Fatalf("unexpected messages %q %q", v.Error, v.NoData)
	}
	if len(v.Pies) != 4 {
		t.Fatalf("expected 4 pies, got %d", len(v.Pies))
	}
	nfa := v.Pies[1]
	found := false
	for _, s := range nfa.Slices {
		if s.Label == "Cash" && s.Value == 10 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Cash slice of 10 in %+v", nfa.Slices)
	}
	if v.Filtered {
		t.Error("default controls should not filter")
	}
	if len(v.Rows) != 3 {
		t.Errorf("expected all 3 rows, got %d", len(v.Rows))
	}
}

func TestEntityHandler_Country(t *testing.T) {
	src := newFakeSource()
	h := NewEntityHandler(nil, config.KindCountry, src)

	w := get(t, h, "/country/Israel")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Israel Credit Report") {
		t.Error("expected report title")
	}

	w = get(t, h, "/country/Atlantis")
	if !strings.Contains(w.Body.String(), "No data found for Atlantis.") {
		t.Error("expected no-data message")
	}
}

func TestEntityHandler_Fund(t *testing.T) {
	h := NewEntityHandler(nil, config.KindFund, newFakeSource())

	w := get(t, h, "/fund/"+strings.ReplaceAll(testFund, " ", "%20"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Region Distribution") {
		t.Error("expected fund charts")
	}
}

func TestEntityHandler_MissingName(t *testing.T) {
	h := NewEntityHandler(nil, config.KindCountry, newFakeSource())
	w := get(t, h, "/country/")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestStaticFileHandler(t *testing.T) {
	h := NewPageHandler(nil)

	w := get(t, http.HandlerFunc(h.StaticFileHandler), "/static/css/portal.css")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for stylesheet, got %d", w.Code)
	}

	w = get(t, http.HandlerFunc(h.StaticFileHandler), "/static/../dashboard.html")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected traversal to be rejected, got %d", w.Code)
	}
}

func TestStaticFileHandler_MissingFileRendersNotFoundPage(t *testing.T) {
	h := NewPageHandler(nil)

	w := get(t, http.HandlerFunc(h.StaticFileHandler), "/static/css/missing.css")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Page not found") || !strings.Contains(body, "/static/css/missing.css") {
		t.Errorf("expected the HTML not-found page, got %q", body)
	}
}
