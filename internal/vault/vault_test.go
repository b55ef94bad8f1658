package vault

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/hrgate/internal/errors"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNew(t *testing.T) {
	key := newTestKey(t)

	t.Run("aes-gcm", func(t *testing.T) {
		v, err := New(key, CipherAESGCM)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("chacha20-poly1305", func(t *testing.T) {
		v, err := New(key, CipherChaCha20Poly1305)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("unsupported cipher", func(t *testing.T) {
		_, err := New(key, "des")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported vault cipher")
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := New(key[:16], CipherAESGCM)
		assert.Error(t, err)
	})
}

func TestVault_EncryptDecrypt(t *testing.T) {
	for _, cipherName := range []string{CipherAESGCM, CipherChaCha20Poly1305} {
		t.Run(cipherName, func(t *testing.T) {
			v, err := New(newTestKey(t), cipherName)
			require.NoError(t, err)

			stored, err := v.Encrypt("odoo-api-key-12345")
			require.NoError(t, err)
			assert.NotEqual(t, "odoo-api-key-12345", stored)

			plaintext, err := v.Decrypt(stored)
			require.NoError(t, err)
			assert.Equal(t, "odoo-api-key-12345", plaintext)
		})
	}
}

func TestVault_EncryptIsNonDeterministic(t *testing.T) {
	v, err := New(newTestKey(t), CipherAESGCM)
	require.NoError(t, err)

	first, err := v.Encrypt("same secret")
	require.NoError(t, err)
	second, err := v.Encrypt("same secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVault_DecryptFailures(t *testing.T) {
	key := newTestKey(t)
	v, err := New(key, CipherAESGCM)
	require.NoError(t, err)

	stored, err := v.Encrypt("secret")
	require.NoError(t, err)

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := v.Decrypt("not base64 at all!")
		assert.ErrorIs(t, err, apperrors.ErrDecryptionFailed)
	})

	t.Run("payload too short", func(t *testing.T) {
		_, err := v.Decrypt(base64.RawURLEncoding.EncodeToString([]byte("tiny")))
		assert.ErrorIs(t, err, apperrors.ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		payload, err := base64.RawURLEncoding.DecodeString(stored)
		require.NoError(t, err)
		payload[len(payload)-1] ^= 0xff

		_, err = v.Decrypt(base64.RawURLEncoding.EncodeToString(payload))
		assert.ErrorIs(t, err, apperrors.ErrDecryptionFailed)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := New(newTestKey(t), CipherAESGCM)
		require.NoError(t, err)

		_, err = other.Decrypt(stored)
		assert.ErrorIs(t, err, apperrors.ErrDecryptionFailed)
	})

	t.Run("wrong cipher", func(t *testing.T) {
		other, err := New(key, CipherChaCha20Poly1305)
		require.NoError(t, err)

		_, err = other.Decrypt(stored)
		assert.ErrorIs(t, err, apperrors.ErrDecryptionFailed)
	})
}

func TestVault_EmptyPlaintext(t *testing.T) {
	v, err := New(newTestKey(t), CipherAESGCM)
	require.NoError(t, err)

	stored, err := v.Encrypt("")
	require.NoError(t, err)

	plaintext, err := v.Decrypt(stored)
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}
