package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/services"
	tu "github.com/desertthunder/phonecat/internal/testing"
)

type brokenCatalog struct {
	services.Catalog
}

func (brokenCatalog) List(context.Context, services.SortKey) ([]*models.Phone, error) {
	return nil, errors.New("disk I/O error")
}

func setupHandler(t *testing.T) *Handler {
	t.Helper()

	_, store := tu.SetupStore(t)
	tu.SeedPhone(t, store, "Bravo <b>", "100", "bravo")
	tu.SeedPhone(t, store, "Alpha", "300", "alpha")
	tu.SeedPhone(t, store, "Charlie", "200", "charlie")

	h, err := NewHandler(services.NewCatalogService(store, nil), nil)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return h
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// order returns the positions of each needle in haystack, or -1 when absent.
func order(haystack string, needles ...string) []int {
	pos := make([]int, len(needles))
	for i, n := range needles {
		pos[i] = strings.Index(haystack, n)
	}
	return pos
}

func ascending(pos []int) bool {
	for i := range pos {
		if pos[i] < 0 || (i > 0 && pos[i] < pos[i-1]) {
			return false
		}
	}
	return true
}

func TestCatalogPage(t *testing.T) {
	h := setupHandler(t)

	tc := []struct {
		query string
		want  []string
	}{
		{query: "/", want: []string{"/catalog/alpha", "/catalog/bravo", "/catalog/charlie"}},
		{query: "/?sort=min_price", want: []string{"/catalog/bravo", "/catalog/charlie", "/catalog/alpha"}},
		{query: "/?sort=max_price", want: []string{"/catalog/alpha", "/catalog/charlie", "/catalog/bravo"}},
		{query: "/?sort=unknown", want: []string{"/catalog/alpha", "/catalog/bravo", "/catalog/charlie"}},
	}

	for _, tt := range tc {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(h, tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("expected HTML, got %s", ct)
			}

			body := rec.Body.String()
			if !ascending(order(body, tt.want...)) {
				t.Errorf("expected order %v in body:\n%s", tt.want, body)
			}
		})
	}

	t.Run("escapes names", func(t *testing.T) {
		body := get(h, "/").Body.String()
		if strings.Contains(body, "Bravo <b>") || !strings.Contains(body, "Bravo &lt;b&gt;") {
			t.Errorf("expected escaped name in body:\n%s", body)
		}
	})

	t.Run("marks active sort", func(t *testing.T) {
		body := get(h, "/?sort=max_price").Body.String()
		if !strings.Contains(body, `href="/?sort=max_price" class="active"`) {
			t.Errorf("expected max_price link to be active:\n%s", body)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		if rec := get(h, "/nope"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestProductPage(t *testing.T) {
	h := setupHandler(t)

	t.Run("found", func(t *testing.T) {
		rec := get(h, "/catalog/charlie")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"<title>Charlie</title>", "200.00", "unknown", "img/charlie.png"} {
			if !strings.Contains(body, want) {
				t.Errorf("product page missing %q:\n%s", want, body)
			}
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := get(h, "/catalog/delta")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "No phone called &#34;delta&#34;.") {
			t.Errorf("unexpected body:\n%s", rec.Body.String())
		}
	})
}

func TestCatalogPageError(t *testing.T) {
	h, err := NewHandler(brokenCatalog{}, nil)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}

	rec := get(h, "/")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}
