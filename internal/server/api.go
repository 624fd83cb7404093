package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phonecat/internal/formatter"
	"github.com/desertthunder/phonecat/internal/services"
	"github.com/desertthunder/phonecat/internal/shared"
)

// APIHandler serves the catalog as JSON.
//
//	GET /health              → {"status":"ok"}
//	GET /api/phones?sort=…   → array of phones
//	GET /api/phones/{slug}   → one phone, or 404
type APIHandler struct {
	catalog services.Catalog
	logger  *log.Logger
	mux     *http.ServeMux
}

var _ Handler = (*APIHandler)(nil)

// NewAPIHandler creates an APIHandler reading from catalog. A nil logger discards output.
func NewAPIHandler(catalog services.Catalog, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = shared.NopLogger()
	}
	h := &APIHandler{catalog: catalog, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /health", h.health)
	h.mux.HandleFunc("GET /api/phones", h.list)
	h.mux.HandleFunc("GET /api/phones/{slug}", h.show)
	return h
}

// Routes implements [Handler].
func (h *APIHandler) Routes() []string {
	return []string{"GET /health", "GET /api/phones", "GET /api/phones/{slug}"}
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *APIHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) list(w http.ResponseWriter, r *http.Request) {
	sort := services.ParseSortKey(r.URL.Query().Get("sort"))

	phones, err := h.catalog.List(r.Context(), sort)
	if err != nil {
		h.logger.Error("failed to list phones", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list phones")
		return
	}
	writeJSON(w, http.StatusOK, formatter.ToRecords(phones))
}

func (h *APIHandler) show(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	phone, err := h.catalog.GetBySlug(r.Context(), slug)
	if errors.Is(err, shared.ErrPhoneNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to get phone", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get phone")
		return
	}
	writeJSON(w, http.StatusOK, formatter.ToRecord(phone))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
