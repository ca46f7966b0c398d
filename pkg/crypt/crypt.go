// Package crypt provides AES-GCM authenticated encryption helpers.
//
// Ciphertext is base64url-encoded with the random nonce prefixed, so a
// single string can be stored in a DB field or cookie. The storefront uses
// it to encrypt refresh tokens at rest on the user document.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/keysncaps/keysncaps/config"
)

// ErrDecrypt is returned when decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

// key derives a 32-byte AES-256 key from the APP_KEY / JWT_SECRET config value.
func key() ([]byte, error) {
	secret := config.Get("APP_KEY", config.JWTSecret())
	if secret == "" {
		return nil, errors.New("crypt: APP_KEY not configured")
	}
	// Always derive a fixed-length key via SHA-256.
	h := sha256.Sum256([]byte(secret))
	return h[:], nil
}

// Encrypt encrypts plaintext using AES-256-GCM and returns a base64url string.
// The output format is: base64url(nonce || ciphertext || tag)
func Encrypt(plaintext string) (string, error) {
	k, err := key()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", fmt.Errorf("crypt: new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("crypt: new GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	// Seal appends ciphertext+tag after nonce.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts a base64url string produced by Encrypt.
func Decrypt(encoded string) (string, error) {
	k, err := key()
	if err != nil {
		return "", err
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", fmt.Errorf("crypt: new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("crypt: new GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", ErrDecrypt
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// Hash returns a SHA-256 hex digest of the input.
func Hash(input string) string {
	h := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", h)
}
