package authn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
	"github.com/lyceumd/lyceumd/internal/token"
)

// Denial errors. Both collapse the underlying cause: a client must not be
// able to tell a missing account from a bad password, or a bad signature
// from a revoked token.
var (
	ErrInvalidToken     = fmt.Errorf("invalid token: %w", httpx.ErrUnauthorized)
	ErrWrongCredentials = fmt.Errorf("wrong credentials, please send a valid username and password: %w", httpx.ErrUnauthorized)
)

// Service verifies credentials and issues tokens.
type Service struct {
	codec     *token.Codec
	revoked   *token.RevocationList
	directory directory.Reader
	passwords directory.PasswordVerifier
	logger    *slog.Logger
}

// NewService constructs a Service. The revocation list may be nil when no
// session-kill support is wired.
func NewService(codec *token.Codec, revoked *token.RevocationList, reader directory.Reader, passwords directory.PasswordVerifier, logger *slog.Logger) *Service {
	return &Service{
		codec:     codec,
		revoked:   revoked,
		directory: reader,
		passwords: passwords,
		logger:    logger,
	}
}

// Authenticate turns a bearer credential into a verified identity. The role
// and school are re-resolved from the directory so the identity always
// reflects current directory state, not the state at mint time.
func (s *Service) Authenticate(ctx context.Context, raw string) (Identity, error) {
	claims, err := s.codec.Verify(raw)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail closed when the revocation list is unreachable.
			if s.logger != nil {
				s.logger.Error("revocation lookup failed", slog.Any("error", err))
			}
			return Identity{}, ErrInvalidToken
		}
		if revoked {
			return Identity{}, ErrInvalidToken
		}
	}

	record, err := s.directory.Record(ctx, claims.User)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			// Account vanished since mint time: the identity keeps its
			// name but carries no role and therefore no privilege.
			return Identity{User: claims.User}, nil
		}
		return Identity{}, err
	}
	return Identity{User: record.User, Role: record.Role, School: record.School}, nil
}

// Login validates a username/password pair and mints a token carrying the
// identity read from the same directory record used for verification.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user := NormalizeUsername(username)
	if user == "" || password == "" {
		return "", ErrWrongCredentials
	}

	record, err := s.directory.Record(ctx, user)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return "", ErrWrongCredentials
		}
		return "", err
	}

	ok, err := s.passwords.VerifyPassword(ctx, record.User, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrWrongCredentials
	}

	return s.codec.Mint(record.User, record.Role, record.School)
}

// NormalizeUsername canonicalizes an account name before any directory
// lookup. NFKC folds lookalike code points that could otherwise smuggle a
// second spelling of an existing account name past the directory.
func NormalizeUsername(username string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(username)))
}
