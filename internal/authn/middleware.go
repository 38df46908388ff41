package authn

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// ErrMissingToken denies requests that carry no credential at all.
var ErrMissingToken = fmt.Errorf("missing token: %w", httpx.ErrUnauthorized)

// HeaderAPIKey is the credential header used by API clients.
const HeaderAPIKey = "X-API-Key"

// Middleware resolves the request credential into an identity and stores it
// in the request context. Requests without a credential pass through
// unauthenticated; the per-route guards reject them. Requests with an
// invalid credential are rejected immediately.
func Middleware(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := credentialFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			identity, err := service.Authenticate(r.Context(), raw)
			if err != nil {
				if logger != nil {
					logger.Warn("authentication failed", slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func credentialFromRequest(r *http.Request) string {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return key
	}
	if bearer := r.Header.Get("Authorization"); strings.HasPrefix(bearer, "Bearer ") {
		return strings.TrimPrefix(bearer, "Bearer ")
	}
	return ""
}
