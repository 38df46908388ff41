// Package sessions fronts the session tooling of the school server: the
// supervised class sessions managed by the command line tools, and the API
// tokens that can be killed through the revocation list.
package sessions

import (
	"context"
	"time"

	"github.com/lyceumd/lyceumd/internal/command"
	"github.com/lyceumd/lyceumd/internal/token"
)

// Service wraps session operations.
type Service struct {
	runner   command.Runner
	revoked  *token.RevocationList
	tokenTTL time.Duration
}

// NewService constructs a Service.
func NewService(runner command.Runner, revoked *token.RevocationList, tokenTTL time.Duration) *Service {
	return &Service{runner: runner, revoked: revoked, tokenTTL: tokenTTL}
}

// Session is the decoded output of the session tool.
type Session map[string]any

// BySupervisor lists the sessions supervised by an account.
func (s *Service) BySupervisor(ctx context.Context, supervisor string) (Session, error) {
	out, err := s.runner.Output(ctx, "sophomorix-session", "-i", "--supervisor", supervisor, "-jj")
	if err != nil {
		return nil, err
	}
	var decoded Session
	if err := command.DecodeJSON(out, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// Get returns the details of a named session.
func (s *Service) Get(ctx context.Context, session string) (Session, error) {
	out, err := s.runner.Output(ctx, "sophomorix-session", "-i", "--session", session, "-jj")
	if err != nil {
		return nil, err
	}
	var decoded Session
	if err := command.DecodeJSON(out, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// Create starts a new supervised session.
func (s *Service) Create(ctx context.Context, supervisor, name string) error {
	_, err := s.runner.Output(ctx, "sophomorix-session", "--create", "--supervisor", supervisor, "--comment", name, "-jj")
	return err
}

// Kill terminates a supervised session.
func (s *Service) Kill(ctx context.Context, session string) error {
	_, err := s.runner.Output(ctx, "sophomorix-session", "--session", session, "--kill", "-jj")
	return err
}

// KillAPISession blocks a token ID for at least the maximum token lifetime,
// after which every token carrying it has expired anyway. With no expiry
// configured the block is permanent.
func (s *Service) KillAPISession(ctx context.Context, jti string) error {
	until := time.Time{}
	if s.tokenTTL > 0 {
		until = time.Now().Add(s.tokenTTL)
	}
	return s.revoked.Revoke(ctx, jti, until)
}
