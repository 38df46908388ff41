// Package token mints and verifies the signed credentials carried by API
// clients.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lyceumd/lyceumd/internal/roles"
)

// ErrInvalidToken covers every integrity, decoding and expiry failure.
// Callers must not surface anything more specific.
var ErrInvalidToken = errors.New("token: invalid token")

// Secret is the process-wide signing key. It is decoded once at startup and
// injected where needed; nothing re-reads it from configuration afterwards.
type Secret []byte

// SecretFromBase64 decodes the configured signing secret.
func SecretFromBase64(encoded string) (Secret, error) {
	if encoded == "" {
		return nil, errors.New("token: empty secret")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("token: decode secret: %w", err)
	}
	return Secret(raw), nil
}

// Claims is the payload carried by a signed token.
type Claims struct {
	User   string `json:"user"`
	Role   string `json:"role"`
	School string `json:"school"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens. Tokens are signed with HS512; HS256 is
// additionally accepted on verification for credentials minted by older
// deployments.
type Codec struct {
	secret Secret
	ttl    time.Duration
	now    func() time.Time
}

var acceptedMethods = []string{
	jwt.SigningMethodHS512.Alg(),
	jwt.SigningMethodHS256.Alg(),
}

// NewCodec constructs a Codec. A zero ttl mints tokens without expiry.
func NewCodec(secret Secret, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl, now: time.Now}
}

// Mint signs a token for an account with the role and school captured at
// issuance time.
func (c *Codec) Mint(user string, role roles.Role, school string) (string, error) {
	now := c.now().UTC()
	claims := Claims{
		User:   user,
		Role:   string(role),
		School: school,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(c.secret))
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and registered claims of a token and returns
// its payload. Every failure collapses to ErrInvalidToken.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return []byte(c.secret), nil },
		jwt.WithValidMethods(acceptedMethods),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.User == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
