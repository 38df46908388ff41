package printing

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/authz"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// Handler wires the password-printing endpoint.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate

	staffOnly *authz.RoleChecker
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
		staffOnly: authz.NewRoleChecker(authz.AllowAliases("GST")),
	}
}

// MountRoutes registers printing routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(h.staffOnly))
		r.Post("/users", h.printUsers)
	})
}

type printRequest struct {
	Users  []string `json:"users" validate:"required,min=1"`
	School string   `json:"school"`
	Format string   `json:"format" validate:"required,oneof=pdf csv"`
}

func (h *Handler) printUsers(w http.ResponseWriter, r *http.Request) {
	who, ok := authn.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, authn.ErrMissingToken)
		return
	}

	var req printRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("invalid request body: %w", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%s: %w", err.Error(), httpx.ErrValidation))
		return
	}

	sheet, err := h.service.Print(r.Context(), who, req.Users, req.School, req.Format)
	if err != nil {
		h.logger.Error("print passwords", slog.String("caller", who.User), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", sheet.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename))
	http.ServeFile(w, r, sheet.Path)
}
