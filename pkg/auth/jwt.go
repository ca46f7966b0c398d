// Package auth issues and verifies the storefront's HMAC-signed tokens and
// wraps bcrypt password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/keysncaps/keysncaps/config"
)

const (
	// TypeAccess marks short-lived bearer tokens.
	TypeAccess = "access"
	// TypeRefresh marks the long-lived tokens persisted on the user record.
	TypeRefresh = "refresh"

	accessTTL      = 15 * time.Minute
	adminAccessTTL = 4 * time.Hour
	refreshTTL     = 30 * 24 * time.Hour
)

// ErrWrongTokenType is returned when e.g. a refresh token is presented as a
// bearer credential.
var ErrWrongTokenType = errors.New("auth: wrong token type")

// Claims holds the typed JWT payload.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateAccessToken creates a signed short-lived JWT for the given user.
// Admin sessions run longer than customer ones (4h vs 15m).
func GenerateAccessToken(userID, role string) (string, error) {
	ttl := accessTTL
	if role == "admin" {
		ttl = adminAccessTTL
	}
	return sign(userID, role, TypeAccess, ttl)
}

// GenerateRefreshToken creates a signed 30-day token used to mint new
// access tokens. The caller persists it on the user record.
func GenerateRefreshToken(userID, role string) (string, error) {
	return sign(userID, role, TypeRefresh, refreshTTL)
}

func sign(userID, role, typ string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string of the expected type.
func ValidateToken(t, typ string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
