package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
	"github.com/bobmcallan/xtrillion-portal/internal/config"
)

// PageHandler serves static assets and the shared page templates.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger) *PageHandler {
	return &PageHandler{
		logger:    orSilent(logger),
		templates: LoadTemplates(),
	}
}

// LoadTemplates parses pages/*.html and pages/partials/*.html.
func LoadTemplates() *template.Template {
	pagesDir := FindPagesDir()

	templates := template.Must(template.New("pages").Funcs(templateFuncs).ParseGlob(filepath.Join(pagesDir, "*.html")))
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")))
	return templates
}

var templateFuncs = template.FuncMap{
	"version": config.GetVersion,
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// StaticFileHandler serves static files (CSS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	staticDir := filepath.Join(FindPagesDir(), "static")

	// Remove /static/ prefix from URL path
	path := strings.TrimPrefix(r.URL.Path, "/static/")
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if !strings.HasPrefix(absFullPath, absStaticDir+string(filepath.Separator)) {
		h.NotFoundPage(w, r)
		return
	}
	if info, err := os.Stat(absFullPath); err != nil || info.IsDir() {
		h.NotFoundPage(w, r)
		return
	}

	http.ServeFile(w, r, absFullPath)
}

// NotFoundPage renders the HTML 404 page.
func (h *PageHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	renderPage(w, h.templates, h.logger, "notfound.html", map[string]interface{}{
		"Page": "notfound",
		"Path": r.URL.Path,
	})
}
