package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lyceumd/lyceumd/internal/authhttp"
	"github.com/lyceumd/lyceumd/internal/authn"
	"github.com/lyceumd/lyceumd/internal/printing"
	"github.com/lyceumd/lyceumd/internal/query"
	"github.com/lyceumd/lyceumd/internal/sessions"
	"github.com/lyceumd/lyceumd/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Authn           *authn.Service
	AuthHandler     *authhttp.Handler
	UsersHandler    *users.Handler
	SessionsHandler *sessions.Handler
	PrintingHandler *printing.Handler
	QueryHandler    *query.Handler
}

// NewRouter constructs the chi.Router with Lyceum defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
		Authn:  params.Authn,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(LoginRateLimit())
			r.Route("/auth", params.AuthHandler.MountRoutes)
		})
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/sessions", params.SessionsHandler.MountRoutes)
		r.Route("/print-passwords", params.PrintingHandler.MountRoutes)
		r.Route("/query", params.QueryHandler.MountRoutes)
	})

	return r
}
