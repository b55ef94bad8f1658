package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/hrgate/internal/auth/domain"
	apperrors "github.com/allisson/hrgate/internal/errors"
)

const issuer = "hrgate"

// Token use claim values.
const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// Claims represents the JWT claims carried by portal bearer tokens.
// The subject is the user's email address.
type Claims struct {
	IsAdmin  bool   `json:"is_admin,omitempty"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// jwtService implements JWTService using HS256 signatures.
type jwtService struct {
	signingSecret  []byte
	accessExpires  time.Duration
	refreshExpires time.Duration
}

// NewJWTService creates a JWTService that signs tokens with the given secret.
func NewJWTService(signingSecret string, accessExpires, refreshExpires time.Duration) JWTService {
	return &jwtService{
		signingSecret:  []byte(signingSecret),
		accessExpires:  accessExpires,
		refreshExpires: refreshExpires,
	}
}

// IssueAccessToken signs a short-lived access token embedding the admin flag.
func (j *jwtService) IssueAccessToken(user *authDomain.User) (string, error) {
	return j.sign(user, tokenUseAccess, j.accessExpires, user.IsAdmin)
}

// IssueRefreshToken signs a longer-lived refresh token carrying only the subject.
func (j *jwtService) IssueRefreshToken(user *authDomain.User) (string, error) {
	return j.sign(user, tokenUseRefresh, j.refreshExpires, false)
}

// VerifyAccessToken validates an access token and returns its claims.
func (j *jwtService) VerifyAccessToken(token string) (*Claims, error) {
	return j.verify(token, tokenUseAccess)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (j *jwtService) VerifyRefreshToken(token string) (*Claims, error) {
	return j.verify(token, tokenUseRefresh)
}

func (j *jwtService) sign(
	user *authDomain.User,
	tokenUse string,
	expires time.Duration,
	isAdmin bool,
) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		IsAdmin:  isAdmin,
		TokenUse: tokenUse,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expires)),
			ID:        uuid.Must(uuid.NewV7()).String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.signingSecret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (j *jwtService) verify(token, expectedUse string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, authDomain.ErrInvalidToken
		}
		return j.signingSecret, nil
	})
	if err != nil {
		return nil, authDomain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, authDomain.ErrInvalidToken
	}
	if claims.Issuer != issuer || claims.Subject == "" {
		return nil, authDomain.ErrInvalidToken
	}
	if claims.TokenUse != expectedUse {
		return nil, authDomain.ErrInvalidToken
	}

	return claims, nil
}
