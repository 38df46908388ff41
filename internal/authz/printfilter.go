package authz

import (
	"context"
	"log/slog"

	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/roles"
)

// PrintFilter redacts accounts from a password-print request instead of
// rejecting the request. The print tool refuses admin passwords, so they are
// stripped here; the same goes for the caller's own entry, unknown accounts
// and, for teacher callers, fellow teachers.
type PrintFilter struct {
	directory directory.Reader
	logger    *slog.Logger
}

// NewPrintFilter constructs a PrintFilter.
func NewPrintFilter(dir directory.Reader, logger *slog.Logger) *PrintFilter {
	return &PrintFilter{directory: dir, logger: logger}
}

// Filter returns the subset of users whose passwords the caller may print,
// preserving input order. It never fails the request: entries whose role
// cannot be resolved are dropped.
func (f *PrintFilter) Filter(ctx context.Context, who authn.Identity, users []string) []string {
	kept := make([]string, 0, len(users))
	for _, user := range users {
		if user == who.User {
			continue
		}

		role, err := resolveTargetRole(ctx, f.directory, user)
		if err != nil {
			if f.logger != nil {
				f.logger.Warn("print filter role lookup failed",
					slog.String("user", user), slog.Any("error", err))
			}
			continue
		}
		if role == "" {
			continue
		}
		if role == roles.GlobalAdministrator || role == roles.SchoolAdministrator {
			continue
		}
		if who.Role == roles.Teacher && role == roles.Teacher {
			continue
		}
		kept = append(kept, user)
	}
	return kept
}
