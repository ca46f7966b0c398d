package crypt_test

import (
	"testing"

	"github.com/keysncaps/keysncaps/pkg/crypt"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := "eyJhbGciOiJIUzI1NiJ9.some.refresh-token"

	enc, err := crypt.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if enc == plain {
		t.Fatal("ciphertext equals plaintext")
	}

	dec, err := crypt.Decrypt(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if dec != plain {
		t.Errorf("round trip = %q, want %q", dec, plain)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	a, err := crypt.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	b, err := crypt.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("expected distinct nonces to produce distinct ciphertexts")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	enc, err := crypt.Encrypt("secret value")
	if err != nil {
		t.Fatal(err)
	}

	runes := []byte(enc)
	// Flip the last character of the base64 payload.
	if runes[len(runes)-1] == 'a' {
		runes[len(runes)-1] = 'b'
	} else {
		runes[len(runes)-1] = 'a'
	}

	if _, err := crypt.Decrypt(string(runes)); err == nil {
		t.Error("expected tampered ciphertext to fail authentication")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	if _, err := crypt.Decrypt("!!not-base64!!"); err == nil {
		t.Error("expected decode error")
	}
	if _, err := crypt.Decrypt("c2hvcnQ"); err == nil {
		t.Error("expected short ciphertext to fail")
	}
}

func TestHashIsStable(t *testing.T) {
	if crypt.Hash("abc") != crypt.Hash("abc") {
		t.Error("hash not deterministic")
	}
	if crypt.Hash("abc") == crypt.Hash("abd") {
		t.Error("distinct inputs collided")
	}
}
