// Package directory exposes read and write access to the school directory.
package directory

import (
	"context"
	"errors"

	"github.com/lyceumd/lyceumd/internal/roles"
)

// ErrNotFound indicates the requested account does not exist.
var ErrNotFound = errors.New("directory: account not found")

// Record is the subset of a directory account the API works with.
type Record struct {
	User             string
	Surname          string
	GivenName        string
	DisplayName      string
	Role             roles.Role
	School           string
	AdminClass       string
	ProxyAddresses   []string
	FirstPasswordSet bool
}

// Attributes collects the profile fields an account owner may update.
type Attributes struct {
	DisplayName    *string
	ProxyAddresses []string
}

// Reader provides read access to directory accounts.
type Reader interface {
	// Record returns the full account record, or ErrNotFound.
	Record(ctx context.Context, user string) (*Record, error)
	// RoleOf returns the role stored for an account. An unknown account
	// yields an empty role and a nil error: absence means "no privilege",
	// not a lookup failure.
	RoleOf(ctx context.Context, user string) (roles.Role, error)
	// List returns the basic records of every account in a school. An
	// empty school lists all accounts.
	List(ctx context.Context, school string) ([]Record, error)
	// Search returns accounts matching a name fragment, scoped to a
	// school unless the school is "global".
	Search(ctx context.Context, school, term string) ([]Record, error)
}

// Writer applies profile updates to directory accounts.
type Writer interface {
	SetAttributes(ctx context.Context, user string, attrs Attributes) error
}

// PasswordVerifier checks a password against the identity store.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, user, password string) (bool, error)
}
