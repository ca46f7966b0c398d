package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keysncaps/keysncaps/pkg/auth"
	"github.com/keysncaps/keysncaps/pkg/middleware"
	"github.com/keysncaps/keysncaps/pkg/rbac"
)

func allUsersExist(context.Context, string) bool { return true }

func protected(t *testing.T, lookup middleware.UserLookup) http.Handler {
	t.Helper()
	return middleware.Auth(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.UserIDFromCtx(r)
		w.Write([]byte(id)) //nolint:errcheck
	}))
}

func TestAuthAcceptsValidAccessToken(t *testing.T) {
	token, err := auth.GenerateAccessToken("u-123", "customer")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	protected(t, allUsersExist).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "u-123" {
		t.Errorf("user id in context = %q, want u-123", rec.Body.String())
	}
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	handler := protected(t, allUsersExist)

	for _, header := range []string{"", "Bearer", "Basic abc123", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAuthRejectsRefreshTokenAsBearer(t *testing.T) {
	token, err := auth.GenerateRefreshToken("u-123", "customer")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	protected(t, allUsersExist).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsDeletedUser(t *testing.T) {
	token, err := auth.GenerateAccessToken("ghost", "customer")
	if err != nil {
		t.Fatal(err)
	}

	noUsers := func(context.Context, string) bool { return false }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	protected(t, noUsers).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAdminGate(t *testing.T) {
	gate := middleware.Auth(allUsersExist)(
		rbac.HasRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	adminToken, _ := auth.GenerateAccessToken("a-1", "admin")
	customerToken, _ := auth.GenerateAccessToken("c-1", "customer")

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"admin passes", adminToken, http.StatusOK},
		{"customer rejected same as anonymous", customerToken, http.StatusUnauthorized},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/products", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
