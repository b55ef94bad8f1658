package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenService_GenerateToken(t *testing.T) {
	svc := NewResetTokenService()

	plainToken, tokenHash, err := svc.GenerateToken()
	require.NoError(t, err)

	// Token decodes to 32 random bytes
	decoded, err := base64.URLEncoding.DecodeString(plainToken)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)

	// Hash is hex-encoded SHA-256
	assert.Len(t, tokenHash, 64)
	assert.Equal(t, svc.HashToken(plainToken), tokenHash)
}

func TestResetTokenService_TokensAreUnique(t *testing.T) {
	svc := NewResetTokenService()

	first, _, err := svc.GenerateToken()
	require.NoError(t, err)
	second, _, err := svc.GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestResetTokenService_HashToken(t *testing.T) {
	svc := NewResetTokenService()

	hash := svc.HashToken("some-token")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, svc.HashToken("some-token"))
	assert.NotEqual(t, hash, svc.HashToken("other-token"))
}
