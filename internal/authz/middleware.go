package authz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// Middleware wires the evaluators as chi route guards. Every privileged
// route passes through exactly one of RequireRoles, RequireUser or
// RequireUserList.
type Middleware struct {
	Logger *slog.Logger
}

// RequireRoles guards a route with a coarse role check.
func (m Middleware) RequireRoles(checker *RoleChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := authn.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, authn.ErrMissingToken)
				return
			}
			if err := checker.Check(who); err != nil {
				m.deny(w, r, who.User, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser guards a route acting on a single account named by the given
// URL parameter.
func (m Middleware) RequireUser(checker *UserChecker, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := authn.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, authn.ErrMissingToken)
				return
			}
			target := chi.URLParam(r, param)
			if err := checker.Check(r.Context(), who, target); err != nil {
				m.deny(w, r, who.User, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type userListBody struct {
	Users []string `json:"users"`
}

// RequireUserList guards a route acting on the accounts listed in the
// request payload's "users" field. The body is restored for the handler.
func (m Middleware) RequireUserList(checker *UserListChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := authn.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, authn.ErrMissingToken)
				return
			}
			targets, err := peekUserList(r)
			if err != nil {
				httpx.RespondError(w, fmt.Errorf("invalid request body: %w", httpx.ErrValidation))
				return
			}
			if err := checker.Check(r.Context(), who, targets); err != nil {
				m.deny(w, r, who.User, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// peekUserList extracts the target list without consuming the body.
func peekUserList(r *http.Request) ([]string, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var body userListBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body.Users, nil
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, user string, err error) {
	if m.Logger != nil {
		m.Logger.Warn("authorization denied",
			slog.String("user", user),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
