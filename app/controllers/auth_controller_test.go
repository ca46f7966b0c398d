package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/keysncaps/keysncaps/app/controllers"
	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/services"
)

// fakeUserStore is an in-memory services.UserStore.
type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	s.users[user.ID.Hex()] = &cp
	return nil
}

func (s *fakeUserStore) SetRefreshToken(_ context.Context, id, token string) error {
	u, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func newAuthController(t *testing.T) *controllers.AuthController {
	t.Helper()
	svc := services.NewAuthService(newFakeUserStore())
	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct-horse-battery"); err != nil {
		t.Fatal(err)
	}
	return controllers.NewAuthController(svc)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	return nil
}

func TestLoginSetsHTTPOnlyRefreshCookie(t *testing.T) {
	ctrl := newAuthController(t)

	rec := postJSON(t, ctrl.Login, "/api/users/login", map[string]string{
		"email":    "ada@example.com",
		"password": "correct-horse-battery",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "access_token")

	cookie := refreshCookie(rec)
	require.NotNil(t, cookie, "login must set the refresh cookie")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
}

func TestLoginWrongPasswordNoCookie(t *testing.T) {
	ctrl := newAuthController(t)

	rec := postJSON(t, ctrl.Login, "/api/users/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, refreshCookie(rec), "failed login must not set a cookie")
}

func TestRefreshWithValidCookie(t *testing.T) {
	ctrl := newAuthController(t)

	login := postJSON(t, ctrl.Login, "/api/users/login", map[string]string{
		"email":    "ada@example.com",
		"password": "correct-horse-battery",
	})
	cookie := refreshCookie(login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	ctrl.Refresh(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "access_token")
}

func TestRefreshWithTamperedCookie(t *testing.T) {
	ctrl := newAuthController(t)

	login := postJSON(t, ctrl.Login, "/api/users/login", map[string]string{
		"email":    "ada@example.com",
		"password": "correct-horse-battery",
	})
	cookie := refreshCookie(login)
	require.NotNil(t, cookie)

	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"
	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	ctrl.Refresh(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	ctrl := newAuthController(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh", nil)
	rec := httptest.NewRecorder()
	ctrl.Refresh(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	ctrl := newAuthController(t)

	rec := postJSON(t, ctrl.Register, "/api/users", map[string]string{
		"name":     "B",
		"email":    "not-an-email",
		"password": "short",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
