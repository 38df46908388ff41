package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lyceumd/lyceumd/internal/roles"
)

var testSecret = Secret("0123456789abcdef0123456789abcdef")

func TestMintVerifyRoundTrip(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)
	raw, err := codec.Mint("doe", roles.Teacher, "default-school")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.User != "doe" {
		t.Fatalf("expected user doe, got %q", claims.User)
	}
	if claims.Role != string(roles.Teacher) {
		t.Fatalf("expected role teacher, got %q", claims.Role)
	}
	if claims.School != "default-school" {
		t.Fatalf("expected school default-school, got %q", claims.School)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token ID")
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("expected an expiry with a positive ttl")
	}
}

func TestMintWithoutTTLOmitsExpiry(t *testing.T) {
	codec := NewCodec(testSecret, 0)
	raw, err := codec.Mint("doe", roles.Student, "default-school")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("expected no expiry claim with ttl 0")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	raw, err := NewCodec(testSecret, time.Hour).Mint("doe", roles.Teacher, "default-school")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := NewCodec(Secret("another-secret-another-secret-ab"), time.Hour)
	if _, err := other.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(raw); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestVerifyExpired(t *testing.T) {
	codec := NewCodec(testSecret, time.Minute)
	raw, err := codec.Mint("doe", roles.Teacher, "default-school")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	codec.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := codec.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyAcceptsHS256(t *testing.T) {
	claims := Claims{
		User:   "doe",
		Role:   string(roles.Student),
		School: "default-school",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       "legacy",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	got, err := NewCodec(testSecret, 0).Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.User != "doe" {
		t.Fatalf("expected user doe, got %q", got.User)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{User: "doe"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewCodec(testSecret, 0).Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerifyRejectsMissingUser(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "x"},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewCodec(testSecret, 0).Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for missing user claim, got %v", err)
	}
}

func TestSecretFromBase64(t *testing.T) {
	secret, err := SecretFromBase64("c2VjcmV0LXZhbHVl")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(secret) != "secret-value" {
		t.Fatalf("unexpected secret %q", secret)
	}
	if _, err := SecretFromBase64(""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := SecretFromBase64("%%%"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}
