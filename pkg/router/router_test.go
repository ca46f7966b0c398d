package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keysncaps/keysncaps/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.show", ok)

	path, found := r.Path("products.show")
	if !found || path != "/products/{id}" {
		t.Fatalf("Path = %q, %v", path, found)
	}

	url, err := r.URL("products.show", map[string]string{"id": "42"})
	if err != nil {
		t.Fatal(err)
	}
	if url != "/products/42" {
		t.Errorf("URL = %q", url)
	}

	if _, err := r.URL("products.show", nil); err == nil {
		t.Error("expected error for missing params")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route")
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	r := router.New()

	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", tag("group"))
	api.Post("/orders", "orders.create", ok, tag("route"))

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(order) != 2 || order[0] != "group" || order[1] != "route" {
		t.Errorf("middleware order = %v, want [group route]", order)
	}
}

func TestMethodNotMatched(t *testing.T) {
	r := router.New()
	r.Get("/only-get", "only.get", ok)

	req := httptest.NewRequest(http.MethodPost, "/only-get", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok)
	g := r.Group("/api")
	g.Put("/b/{id}", "b.update", ok)

	infos := r.Routes()
	if len(infos) != 2 {
		t.Fatalf("routes = %d, want 2", len(infos))
	}

	byName := map[string]router.RouteInfo{}
	for _, ri := range infos {
		byName[ri.Name] = ri
	}
	if byName["b.update"].Path != "/api/b/{id}" || byName["b.update"].Method != http.MethodPut {
		t.Errorf("b.update = %+v", byName["b.update"])
	}
}
