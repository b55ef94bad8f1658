// Package service provides the service token value generator.
package service

// TokenService generates and hashes service token values. Only the hash is
// ever persisted.
type TokenService interface {
	// GenerateToken creates a new random token value.
	// Returns the plain token and its hash.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain token value for lookup.
	HashToken(plainToken string) string
}
