// Package query exposes the global directory search.
package query

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lyceumd/lyceumd/internal/authz"
	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// Handler wires the directory query endpoint.
type Handler struct {
	logger    *slog.Logger
	directory directory.Reader
	guard     authz.Middleware

	adminOnly *authz.RoleChecker
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, dir directory.Reader, guard authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		directory: dir,
		guard:     guard,
		adminOnly: authz.NewRoleChecker(authz.AllowRoles()),
	}
}

// MountRoutes registers query routes on the provided router. Only global
// administrators pass: the role set is empty, so the checker admits nothing
// but the global override.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(h.adminOnly))
		r.Get("/{school}/{term}", h.search)
	})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	school := chi.URLParam(r, "school")
	term := chi.URLParam(r, "term")

	records, err := h.directory.Search(r.Context(), school, term)
	if err != nil {
		h.logger.Error("directory search", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}
