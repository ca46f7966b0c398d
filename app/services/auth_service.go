package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/pkg/auth"
	"github.com/keysncaps/keysncaps/pkg/crypt"
	"github.com/keysncaps/keysncaps/pkg/logger"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so responses do not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken covers expired, tampered, and mismatched
	// refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}

// UserStore is the slice of the user repository the auth flow needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetRefreshToken(ctx context.Context, id, token string) error
}

// AuthService implements registration, login, token refresh, and logout.
//
// Refresh tokens are JWTs persisted (encrypted) on the user record. A login
// overwrites the stored token, so earlier sessions lose their ability to
// refresh.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a customer account with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleCustomer,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a fresh token pair. The stored
// refresh token is replaced, invalidating any previous session's refresh.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, &user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must verify as a refresh JWT and match the one stored on the user record.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken, auth.TypeRefresh)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	stored, err := crypt.Decrypt(user.RefreshToken)
	if err != nil || stored != refreshToken {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	access, err := auth.GenerateAccessToken(claims.UserID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

// Logout clears the stored refresh token. The access token stays valid
// until it expires.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	logger.WithCtx(ctx).Info("auth: session revoked", "user_id", userID)
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (TokenPair, error) {
	id := user.ID.Hex()

	access, err := auth.GenerateAccessToken(id, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(id, user.Role)
	if err != nil {
		return TokenPair{}, err
	}

	encrypted, err := crypt.Encrypt(refresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: encrypt refresh token: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, id, encrypted); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
