// Package authz decides whether a verified identity may perform an action,
// possibly on another account.
package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
	"github.com/lyceumd/lyceumd/internal/roles"
)

// ErrPermissionsDenied is returned by every evaluator when the caller's
// privileges do not cover the requested action.
var ErrPermissionsDenied = fmt.Errorf("permissions denied: %w", httpx.ErrForbidden)

// examSuffix marks target accounts that carry the synthetic examuser role.
const examSuffix = "-exam"

// AllowedRoles is the fixed role set an evaluator was registered with. It is
// built once at route registration and never mutated, so evaluators sharing
// it are safe for concurrent use.
type AllowedRoles struct {
	set map[roles.Role]struct{}
}

// AllowRoles builds an AllowedRoles from explicit role values.
func AllowRoles(list ...roles.Role) AllowedRoles {
	set := make(map[roles.Role]struct{}, len(list))
	for _, role := range list {
		set[role] = struct{}{}
	}
	return AllowedRoles{set: set}
}

// AllowAliases builds an AllowedRoles from a single-character alias string
// such as "GST". Unknown alias characters are dropped.
func AllowAliases(aliases string) AllowedRoles {
	return AllowRoles(roles.ExpandAliases(aliases)...)
}

// Contains reports whether the role belongs to the set.
func (a AllowedRoles) Contains(role roles.Role) bool {
	_, ok := a.set[role]
	return ok
}

// RoleChecker answers the coarse question "is this caller's role permitted
// for this route class". It never looks at a target account.
type RoleChecker struct {
	allowed AllowedRoles
}

// NewRoleChecker constructs a RoleChecker.
func NewRoleChecker(allowed AllowedRoles) *RoleChecker {
	return &RoleChecker{allowed: allowed}
}

// Check allows global administrators and any role in the allowed set.
func (c *RoleChecker) Check(who authn.Identity) error {
	if who.Role == roles.GlobalAdministrator {
		return nil
	}
	if c.allowed.Contains(who.Role) {
		return nil
	}
	return ErrPermissionsDenied
}

// UserChecker answers the scoped question "may this caller act on this
// specific account".
type UserChecker struct {
	allowed   AllowedRoles
	directory directory.Reader
}

// NewUserChecker constructs a UserChecker.
func NewUserChecker(allowed AllowedRoles, dir directory.Reader) *UserChecker {
	return &UserChecker{allowed: allowed, directory: dir}
}

// Check applies, in order: the global-administrator override, the
// unconditional self-access rule, then role membership combined with the
// delegation rule. Self-access holds even when the caller's role is absent
// from the allowed set, so a student can still touch their own record on a
// route registered for teachers.
func (c *UserChecker) Check(ctx context.Context, who authn.Identity, target string) error {
	if who.Role == roles.GlobalAdministrator {
		return nil
	}
	if who.User != "" && who.User == target {
		return nil
	}
	if c.allowed.Contains(who.Role) {
		ok, err := CanDelegate(ctx, c.directory, who, target)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrPermissionsDenied
}

// UserListChecker applies the delegation rule across every target of a
// batch, all-or-nothing.
type UserListChecker struct {
	allowed   AllowedRoles
	directory directory.Reader
}

// NewUserListChecker constructs a UserListChecker.
func NewUserListChecker(allowed AllowedRoles, dir directory.Reader) *UserListChecker {
	return &UserListChecker{allowed: allowed, directory: dir}
}

// Check rejects the whole batch as soon as one target fails the delegation
// rule; the denial names the offending account. There is no partial
// application and no silent dropping.
func (c *UserListChecker) Check(ctx context.Context, who authn.Identity, targets []string) error {
	if who.Role == roles.GlobalAdministrator {
		return nil
	}
	if !c.allowed.Contains(who.Role) {
		return ErrPermissionsDenied
	}
	for _, target := range targets {
		ok, err := CanDelegate(ctx, c.directory, who, target)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("permissions denied to request user %s: %w", target, httpx.ErrForbidden)
		}
	}
	return nil
}

// CanDelegate reports whether who may act on the target account. It is the
// standalone predicate behind UserChecker, UserListChecker and the print
// filter; unlike UserChecker.Check it does not grant self-access up front,
// so the same-role branch below stays reachable.
func CanDelegate(ctx context.Context, dir directory.Reader, who authn.Identity, target string) (bool, error) {
	if target == "" {
		return false, nil
	}
	if who.Role == roles.GlobalAdministrator {
		return true, nil
	}

	targetRole, err := resolveTargetRole(ctx, dir, target)
	if err != nil {
		return false, err
	}
	// Unknown accounts are never delegatable.
	if targetRole == "" {
		return false, nil
	}

	// Only these two roles may ever act on someone else.
	if who.Role != roles.Teacher && who.Role != roles.SchoolAdministrator {
		return false, nil
	}

	if who.Role == targetRole {
		// Peers never act on each other; only the account itself passes.
		return who.User == target, nil
	}

	// Acting upward is forbidden; unknown target roles rank above every
	// real role and are therefore denied here as well.
	return roles.Rank(targetRole) <= roles.Rank(who.Role), nil
}

// resolveTargetRole determines the role of a target account. Exam accounts
// are recognized by naming convention and never stored in the directory.
func resolveTargetRole(ctx context.Context, dir directory.Reader, target string) (roles.Role, error) {
	if strings.HasSuffix(target, examSuffix) {
		return roles.ExamUser, nil
	}
	return dir.RoleOf(ctx, target)
}
