// Package authhttp exposes the credential exchange endpoint: Basic
// credentials in, signed token out.
package authhttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// Handler wires the token issuance endpoint.
type Handler struct {
	logger  *slog.Logger
	service *authn.Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *authn.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.issueToken)
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="lyceum"`)
		httpx.RespondError(w, authn.ErrWrongCredentials)
		return
	}

	minted, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("login rejected", slog.String("remote", r.RemoteAddr))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: minted})
}
