package users

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lyceumd/lyceumd/internal/authz"
	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/platform/httpx"
)

// Handler wires the user endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate

	adminOnly *authz.RoleChecker
	userGuard *authz.UserChecker
	listGuard *authz.UserListChecker
}

// NewHandler constructs a Handler. The allowed-role sets are built once
// here, at route registration time.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware, dir directory.Reader) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
		adminOnly: authz.NewRoleChecker(authz.AllowAliases("G")),
		userGuard: authz.NewUserChecker(authz.AllowAliases("GST"), dir),
		listGuard: authz.NewUserListChecker(authz.AllowAliases("GST"), dir),
	}
}

// MountRoutes registers user routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(h.adminOnly))
		r.Get("/", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser(h.userGuard, "user"))
		r.Get("/{user}", h.get)
		r.Post("/{user}", h.update)
		r.Post("/{user}/set-first-password", h.setFirstPassword)
		r.Post("/{user}/set-current-password", h.setCurrentPassword)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUserList(h.listGuard))
		r.Post("/get_users_from_cn", h.getMany)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	responses := make([]UserResponse, len(records))
	for i := range records {
		responses[i] = toResponse(&records[i], false)
	}
	httpx.JSON(w, http.StatusOK, responses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	withFirstPw := r.URL.Query().Get("check_first_pw") == "true"

	record, err := h.service.Get(r.Context(), user)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(record, withFirstPw))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.Update(r.Context(), chi.URLParam(r, "user"), req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getMany(w http.ResponseWriter, r *http.Request) {
	var req UserListRequest
	if !h.decode(w, r, &req) {
		return
	}
	found, err := h.service.GetMany(r.Context(), req.Users)
	if err != nil {
		h.logger.Error("get users from cn", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, found)
}

func (h *Handler) setFirstPassword(w http.ResponseWriter, r *http.Request) {
	var req SetFirstPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	user := chi.URLParam(r, "user")
	if err := h.service.SetFirstPassword(r.Context(), user, req.Password, req.SetCurrent); err != nil {
		h.logger.Error("set first password", slog.String("user", user), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setCurrentPassword(w http.ResponseWriter, r *http.Request) {
	var req SetCurrentPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	user := chi.URLParam(r, "user")
	if err := h.service.SetCurrentPassword(r.Context(), user, req.Password, req.SetFirst); err != nil {
		h.logger.Error("set current password", slog.String("user", user), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.RespondError(w, fmt.Errorf("invalid request body: %w", httpx.ErrValidation))
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.RespondError(w, fmt.Errorf("%s: %w", err.Error(), httpx.ErrValidation))
		return false
	}
	return true
}
