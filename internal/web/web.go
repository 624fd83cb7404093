// Package web renders the phone catalog as server-side HTML.
//
// Routes
//
//	GET /?sort=…           → catalog page, sorted by name, min_price or max_price
//	GET /catalog/{slug}    → product page, or a 404 page
//
// Templates are embedded and parsed once per page on top of base.html, so each page
// defines its own "title" and "content" blocks.
//
// [Handler] satisfies the server package's Handler interface and is registered on the same
// router as the JSON API.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/services"
	"github.com/desertthunder/phonecat/internal/shared"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageCatalog  = "catalog.html"
	pageProduct  = "product.html"
	pageNotFound = "not_found.html"
)

// SortLink is one entry of the catalog sort menu.
type SortLink struct {
	Key    services.SortKey
	Label  string
	Active bool
}

type catalogPage struct {
	Phones []*models.Phone
	Sorts  []SortLink
}

type productPage struct {
	Phone *models.Phone
}

type notFoundPage struct {
	Message string
}

// Handler serves the HTML catalog.
type Handler struct {
	catalog services.Catalog
	logger  *log.Logger
	pages   map[string]*template.Template
	mux     *http.ServeMux
}

// NewHandler parses the embedded templates and creates a Handler reading from catalog.
func NewHandler(catalog services.Catalog, logger *log.Logger) (*Handler, error) {
	if logger == nil {
		logger = shared.NopLogger()
	}

	pages, err := parsePages(pageCatalog, pageProduct, pageNotFound)
	if err != nil {
		return nil, err
	}

	h := &Handler{catalog: catalog, logger: logger, pages: pages, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /{$}", h.showCatalog)
	h.mux.HandleFunc("GET /catalog/{slug}", h.showProduct)
	return h, nil
}

func parsePages(names ...string) (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// Routes returns the patterns the handler serves.
func (h *Handler) Routes() []string {
	return []string{"GET /{$}", "GET /catalog/{slug}"}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) showCatalog(w http.ResponseWriter, r *http.Request) {
	sort := services.ParseSortKey(r.URL.Query().Get("sort"))

	phones, err := h.catalog.List(r.Context(), sort)
	if err != nil {
		h.logger.Error("failed to list phones", "error", err)
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}

	active := sort
	if active == services.SortDefault {
		active = services.SortName
	}

	links := make([]SortLink, 0, len(services.SortKeys))
	for _, k := range services.SortKeys {
		links = append(links, SortLink{Key: k, Label: k.Label(), Active: k == active})
	}

	h.render(w, http.StatusOK, pageCatalog, catalogPage{Phones: phones, Sorts: links})
}

func (h *Handler) showProduct(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	phone, err := h.catalog.GetBySlug(r.Context(), slug)
	if errors.Is(err, shared.ErrPhoneNotFound) {
		h.render(w, http.StatusNotFound, pageNotFound, notFoundPage{Message: fmt.Sprintf("No phone called %q.", slug)})
		return
	}
	if err != nil {
		h.logger.Error("failed to get phone", "slug", slug, "error", err)
		http.Error(w, "failed to load phone", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, pageProduct, productPage{Phone: phone})
}

// render executes page into a buffer first so a template error never sends a partial page.
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
