// Package vault provides symmetric encryption for secrets at rest.
//
// Plaintext API credentials only ever exist in memory. The stored form is an
// opaque string that embeds everything needed for decryption except the key:
// base64url(nonce || ciphertext). The key is loaded once at startup and is
// immutable for the process lifetime.
package vault

import (
	"encoding/base64"
	"fmt"

	apperrors "github.com/allisson/hrgate/internal/errors"
)

// Cipher names accepted by New.
const (
	CipherAESGCM           = "aes-gcm"
	CipherChaCha20Poly1305 = "chacha20-poly1305"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// Vault encrypts and decrypts secret strings for storage.
type Vault struct {
	aead AEAD
}

// New creates a Vault with the given 32-byte key and cipher name
// ("aes-gcm" or "chacha20-poly1305").
func New(key []byte, cipherName string) (*Vault, error) {
	var aead AEAD
	var err error

	switch cipherName {
	case CipherAESGCM:
		aead, err = NewAESGCM(key)
	case CipherChaCha20Poly1305:
		aead, err = NewChaCha20Poly1305(key)
	default:
		return nil, fmt.Errorf("unsupported vault cipher: %q", cipherName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create vault cipher: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt encrypts a plaintext secret and returns its storage form.
//
// Encryption is non-deterministic: encrypting the same plaintext twice yields
// different outputs because a fresh nonce is generated per call.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	ciphertext, nonce, err := v.aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}

	payload := make([]byte, 0, len(nonce)+len(ciphertext))
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// Decrypt recovers a plaintext secret from its storage form.
//
// Any failure (malformed encoding, truncated payload, wrong key, tampered
// ciphertext) returns ErrDecryptionFailed. Callers treat this as a recoverable
// condition: the affected secret is unusable, the process keeps running.
func (v *Vault) Decrypt(stored string) (string, error) {
	payload, err := base64.RawURLEncoding.DecodeString(stored)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDecryptionFailed, "invalid encoding")
	}

	// Both supported ciphers use a 12-byte nonce and a 16-byte tag.
	if len(payload) < nonceSize+tagSize {
		return "", apperrors.Wrap(apperrors.ErrDecryptionFailed, "payload too short")
	}

	plaintext, err := v.aead.Decrypt(payload[nonceSize:], payload[:nonceSize], nil)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDecryptionFailed, "authentication failed")
	}

	return string(plaintext), nil
}

const (
	nonceSize = 12
	tagSize   = 16
)
