package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type routesHandler struct {
	routes []string
}

func (h *routesHandler) Routes() []string { return h.routes }

func (h *routesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("handled " + r.PathValue("id")))
}

func header(name, value string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Order", value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("Handle", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("expected 200 pong, got %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Handler registers every route", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(&routesHandler{routes: []string{"GET /a/{id}", "GET /b/{id}"}})

		for _, path := range []string{"/a/1", "/b/2"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			want := "handled " + path[len(path)-1:]
			if rec.Body.String() != want {
				t.Errorf("%s: expected %q, got %q", path, want, rec.Body.String())
			}
		}
	})

	t.Run("Middleware order", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(header("X-Order", "first"), header("X-Order", "second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		got := strings.Join(rec.Header().Values("X-Order"), ",")
		if got != "first,second" {
			t.Errorf("expected first,second, got %s", got)
		}
	})
}
