package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/config"
	"github.com/bobmcallan/xtrillion-portal/internal/interfaces"
)

// TabLink is one entry of the dashboard tab bar.
type TabLink struct {
	Label  string
	Slug   string
	Kind   string
	Entity string
	Active bool
}

// DashboardHandler serves the tabbed dashboard. Only the selected tab is
// fetched and rendered; the other tabs are links.
type DashboardHandler struct {
	logger    *common.Logger
	templates *template.Template
	tabs      []config.TabConfig
	source    interfaces.ReportSource
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(logger *common.Logger, tabs []config.TabConfig, source interfaces.ReportSource) *DashboardHandler {
	return &DashboardHandler{
		logger:    orSilent(logger),
		templates: LoadTemplates(),
		tabs:      tabs,
		source:    source,
	}
}

// ServeHTTP renders GET /?tab=<slug>. The first tab is shown when no tab is
// named; an unknown tab is a 404.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusNotFound)
		renderPage(w, h.templates, h.logger, "notfound.html", map[string]interface{}{
			"Page": "notfound",
			"Path": r.URL.Path,
		})
		return
	}
	if !RequireMethod(w, r, "GET") {
		return
	}
	if len(h.tabs) == 0 {
		http.Error(w, "No dashboards configured", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	active := selectTab(h.tabs, query.Get("tab"))
	if active < 0 {
		w.WriteHeader(http.StatusNotFound)
		renderPage(w, h.templates, h.logger, "notfound.html", map[string]interface{}{
			"Page": "notfound",
			"Path": r.URL.String(),
		})
		return
	}

	links := make([]TabLink, len(h.tabs))
	for i, tab := range h.tabs {
		links[i] = TabLink{
			Label:  tab.DisplayLabel(),
			Slug:   tab.Slug(),
			Kind:   tab.Kind,
			Entity: tab.Entity,
			Active: i == active,
		}
	}
	tab := links[active]

	data := map[string]interface{}{
		"Page":          "dashboard",
		"Tabs":          links,
		"Active":        tab,
		"PortalVersion": config.GetVersion(),
	}

	h.logger.Debug().Str("tab", tab.Slug).Str("entity", tab.Entity).Msg("Rendering dashboard tab")

	switch tab.Kind {
	case config.KindFund:
		view := BuildFundView(r.Context(), h.source, h.logger, tab.Label, tab.Entity, tab.Slug, query)
		view.Action = "/"
		view.Tab = tab.Slug
		data["Fund"] = view
	default:
		data["Country"] = BuildCountryView(r.Context(), h.source, h.logger, tab.Entity)
	}

	renderPage(w, h.templates, h.logger, "dashboard.html", data)
}

// selectTab returns the index of the tab with the given slug, 0 for an empty
// slug, or -1 when nothing matches.
func selectTab(tabs []config.TabConfig, slug string) int {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return 0
	}
	for i, tab := range tabs {
		if tab.Slug() == slug || strings.EqualFold(tab.DisplayLabel(), slug) {
			return i
		}
	}
	return -1
}

// EntityHandler serves a single report outside the tab bar:
// GET /country/{name} and GET /fund/{name}.
type EntityHandler struct {
	logger    *common.Logger
	templates *template.Template
	kind      string
	source    interfaces.ReportSource
}

// NewEntityHandler creates a handler for one report kind.
func NewEntityHandler(logger *common.Logger, kind string, source interfaces.ReportSource) *EntityHandler {
	return &EntityHandler{
		logger:    orSilent(logger),
		templates: LoadTemplates(),
		kind:      kind,
		source:    source,
	}
}

// ServeHTTP renders the report named by the last path segment.
func (h *EntityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	name := r.PathValue("name")
	if name == "" {
		name = strings.TrimPrefix(r.URL.Path, "/"+h.kind+"/")
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}

	data := map[string]interface{}{
		"Page":          h.kind,
		"Title":         name,
		"PortalVersion": config.GetVersion(),
	}

	switch h.kind {
	case config.KindFund:
		view := BuildFundView(r.Context(), h.source, h.logger, name, name, common.Slug(name), r.URL.Query())
		view.Action = r.URL.Path
		data["Fund"] = view
	default:
		data["Country"] = BuildCountryView(r.Context(), h.source, h.logger, name)
	}

	renderPage(w, h.templates, h.logger, "entity.html", data)
}
