package token

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList tracks killed API sessions by token ID. Entries expire
// together with the token they block, so the list never grows unbounded.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList constructs a RevocationList.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func revocationKey(jti string) string {
	return "revoked:" + jti
}

// Revoke blocks a token ID until the given time. A zero time blocks it
// permanently, which is the only option for tokens minted without expiry.
func (l *RevocationList) Revoke(ctx context.Context, jti string, until time.Time) error {
	var ttl time.Duration
	if !until.IsZero() {
		ttl = time.Until(until)
		if ttl <= 0 {
			// Already expired, nothing to block.
			return nil
		}
	}
	return l.client.Set(ctx, revocationKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been blocked.
func (l *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
