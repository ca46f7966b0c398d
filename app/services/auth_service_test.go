package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/pkg/auth"
)

// memUserStore is an in-memory services.UserStore.
type memUserStore struct {
	users map[string]*models.User // keyed by hex id
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*models.User{}}
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	s.users[user.ID.Hex()] = &cp
	return nil
}

func (s *memUserStore) SetRefreshToken(_ context.Context, id, token string) error {
	u, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func registeredService(t *testing.T) (*services.AuthService, *memUserStore) {
	t.Helper()
	store := newMemUserStore()
	svc := services.NewAuthService(store)

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)
	return svc, store
}

func TestRegisterHashesPassword(t *testing.T) {
	_, store := registeredService(t)

	u, err := store.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", u.Password)
	assert.True(t, auth.CheckPassword(u.Password, "correct-horse-battery"))
	assert.Equal(t, models.RoleCustomer, u.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := registeredService(t)

	_, err := svc.Register(context.Background(), "Ada Again", "ada@example.com", "another-password")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginIssuesTokensAndStoresRefresh(t *testing.T) {
	svc, store := registeredService(t)

	user, pair, err := svc.Login(context.Background(), "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := auth.ValidateToken(pair.AccessToken, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)

	// The refresh token is stored encrypted, never verbatim.
	stored := store.users[user.ID.Hex()].RefreshToken
	assert.NotEmpty(t, stored)
	assert.NotEqual(t, pair.RefreshToken, stored)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := registeredService(t)

	_, _, err := svc.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials,
		"unknown email must fail the same way as a wrong password")
}

func TestRefreshFlow(t *testing.T) {
	svc, _ := registeredService(t)

	_, pair, err := svc.Login(context.Background(), "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)

	_, err = auth.ValidateToken(renewed.AccessToken, auth.TypeAccess)
	assert.NoError(t, err)
}

func TestRefreshRejectsTamperedToken(t *testing.T) {
	svc, _ := registeredService(t)

	_, pair, err := svc.Login(context.Background(), "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	tampered := pair.RefreshToken[:len(pair.RefreshToken)-2] + "xx"
	_, err = svc.Refresh(context.Background(), tampered)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestSecondLoginInvalidatesFirstRefresh(t *testing.T) {
	svc, _ := registeredService(t)

	_, first, err := svc.Login(context.Background(), "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	// The stored refresh token was overwritten by the second login.
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestLogoutClearsRefresh(t *testing.T) {
	svc, store := registeredService(t)

	user, pair, err := svc.Login(context.Background(), "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID.Hex()))
	assert.Empty(t, store.users[user.ID.Hex()].RefreshToken)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}
