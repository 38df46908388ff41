package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRevocationList(t *testing.T) (*RevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRevocationList(client), mr
}

func TestRevokeAndCheck(t *testing.T) {
	list, _ := newRevocationList(t)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("fresh token ID must not be revoked")
	}

	if err := list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = list.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if !revoked {
		t.Fatalf("expected token ID to be revoked")
	}
}

func TestRevocationExpiresWithToken(t *testing.T) {
	list, mr := newRevocationList(t)
	ctx := context.Background()

	if err := list.Revoke(ctx, "jti-2", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("revocation entry must expire with the token")
	}
}

func TestRevokeWithoutExpiryPersists(t *testing.T) {
	list, mr := newRevocationList(t)
	ctx := context.Background()

	if err := list.Revoke(ctx, "jti-3", time.Time{}); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	mr.FastForward(24 * time.Hour)

	revoked, err := list.IsRevoked(ctx, "jti-3")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if !revoked {
		t.Fatalf("permanent revocation must survive")
	}
}

func TestRevokeAlreadyExpiredIsNoop(t *testing.T) {
	list, _ := newRevocationList(t)
	ctx := context.Background()

	if err := list.Revoke(ctx, "jti-4", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := list.IsRevoked(ctx, "jti-4")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("expired token must not be stored")
	}
}
