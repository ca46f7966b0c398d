package auth_test

import (
	"strings"
	"testing"

	"github.com/keysncaps/keysncaps/pkg/auth"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateAccessToken("user-1", "customer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.ValidateToken(token, auth.TypeAccess)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", claims.UserID)
	}
	if claims.Role != "customer" {
		t.Errorf("role = %q, want customer", claims.Role)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	token, err := auth.GenerateRefreshToken("user-1", "customer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := auth.ValidateToken(token, auth.TypeAccess); err != auth.ErrWrongTokenType {
		t.Errorf("expected ErrWrongTokenType, got %v", err)
	}
	if _, err := auth.ValidateToken(token, auth.TypeRefresh); err != nil {
		t.Errorf("refresh validation failed: %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := auth.GenerateAccessToken("user-1", "customer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := auth.ValidateToken(tampered, auth.TypeAccess); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	if _, err := auth.ValidateToken("not.a.jwt", auth.TypeAccess); err == nil {
		t.Error("expected parse error")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Fatal("password stored in plain text")
	}

	if !auth.CheckPassword(hash, "hunter2hunter2") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrong-password") {
		t.Error("wrong password accepted")
	}
}
