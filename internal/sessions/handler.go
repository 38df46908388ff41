package sessions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lyceumd/lyceumd/internal/authz"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// Handler wires the session endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware

	adminOnly *authz.RoleChecker
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		adminOnly: authz.NewRoleChecker(authz.AllowAliases("GS")),
	}
}

// MountRoutes registers session routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(h.adminOnly))
		r.Get("/per_supervisor/{supervisor}", h.bySupervisor)
		r.Get("/{session}", h.get)
		r.Delete("/{session}", h.kill)
		r.Post("/{supervisor}/{name}", h.create)
		r.Delete("/api/{jti}", h.killAPISession)
	})
}

func (h *Handler) bySupervisor(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.BySupervisor(r.Context(), chi.URLParam(r, "supervisor"))
	if err != nil {
		h.logger.Error("list sessions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, session)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		h.logger.Error("get session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, session)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	err := h.service.Create(r.Context(), chi.URLParam(r, "supervisor"), chi.URLParam(r, "name"))
	if err != nil {
		h.logger.Error("create session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) kill(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Kill(r.Context(), chi.URLParam(r, "session")); err != nil {
		h.logger.Error("kill session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) killAPISession(w http.ResponseWriter, r *http.Request) {
	jti := chi.URLParam(r, "jti")
	if err := h.service.KillAPISession(r.Context(), jti); err != nil {
		h.logger.Error("kill api session", slog.String("jti", jti), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
