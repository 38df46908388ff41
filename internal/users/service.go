package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/lyceumd/lyceumd/internal/command"
	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// Service wraps account reads and the password mutations that go through
// the management tools.
type Service struct {
	reader directory.Reader
	writer directory.Writer
	runner command.Runner
}

// NewService constructs a Service.
func NewService(reader directory.Reader, writer directory.Writer, runner command.Runner) *Service {
	return &Service{reader: reader, writer: writer, runner: runner}
}

// List returns every account in the directory.
func (s *Service) List(ctx context.Context) ([]directory.Record, error) {
	return s.reader.List(ctx, "")
}

// Get returns a single account, or a not-found error the handler can map.
func (s *Service) Get(ctx context.Context, user string) (*directory.Record, error) {
	record, err := s.reader.Record(ctx, user)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", user, httpx.ErrNotFound)
		}
		return nil, err
	}
	return record, nil
}

// GetMany resolves a batch of accounts. Unknown accounts are skipped, not
// errors: the batch guard has already vetted every name it could.
func (s *Service) GetMany(ctx context.Context, names []string) (map[string]UserResponse, error) {
	found := make(map[string]UserResponse, len(names))
	for _, name := range names {
		if _, ok := found[name]; ok {
			continue
		}
		record, err := s.reader.Record(ctx, name)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				continue
			}
			return nil, err
		}
		found[name] = toResponse(record, false)
	}
	return found, nil
}

// Update applies profile attribute changes.
func (s *Service) Update(ctx context.Context, user string, req UpdateUserRequest) error {
	err := s.writer.SetAttributes(ctx, user, directory.Attributes{
		DisplayName:    req.DisplayName,
		ProxyAddresses: req.ProxyAddresses,
	})
	if errors.Is(err, directory.ErrNotFound) {
		return fmt.Errorf("user %s: %w", user, httpx.ErrNotFound)
	}
	return err
}

// SetFirstPassword updates the readable default password through the
// management tool, optionally retrograding the current password to it.
func (s *Service) SetFirstPassword(ctx context.Context, user, password string, setCurrent bool) error {
	args := []string{"--user", user, "--pass", password}
	if !setCurrent {
		args = append(args, "--nofirstpassupdate")
	}
	_, err := s.runner.Output(ctx, "sophomorix-passwd", args...)
	return err
}

// SetCurrentPassword updates the current password through the management
// tool, optionally overwriting the default password too.
func (s *Service) SetCurrentPassword(ctx context.Context, user, password string, setFirst bool) error {
	args := []string{"--user", user, "--pass", password}
	if !setFirst {
		args = append(args, "--hide")
	}
	_, err := s.runner.Output(ctx, "sophomorix-passwd", args...)
	return err
}
