package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/observability"
	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/rbac"
	"github.com/imobix/imobix/internal/resource"
	"github.com/imobix/imobix/internal/shared"
	"github.com/imobix/imobix/internal/templates"
	"github.com/imobix/imobix/internal/uploads"
	"github.com/imobix/imobix/internal/users"
	"github.com/imobix/imobix/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	Guard            *auth.Guard
	RBACMiddleware   rbac.Middleware
	AuthHandler      *auth.Handler
	TemplatesHandler *templates.Handler
	UploadsHandler   *uploads.Handler
	UsersHandler     *users.Handler
	JobHandler       *jobs.Handler
	Files            http.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, httpx.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "Método não permitido")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	roles := params.RBACMiddleware
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(params.Guard.Require)

			r.Get("/dashboard", resource.Endpoint[resource.NoInput, DashboardView](params.Logger, resource.DecodeNone,
				resource.Func[resource.NoInput, DashboardView](dashboardFor), http.StatusOK))

			r.Route("/admin", func(r chi.Router) {
				r.Use(roles.RequireRole(auth.RoleAdmin))
				r.Route("/templates", params.TemplatesHandler.MountAdminRoutes)
				r.Route("/users", params.UsersHandler.MountRoutes)
			})
			r.Route("/agency", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(roles.RequireRole(auth.RoleAgency, auth.RoleAdmin))
					r.Route("/templates", params.TemplatesHandler.MountReadRoutes)
				})
				r.Group(func(r chi.Router) {
					r.Use(roles.RequireRole(auth.RoleAgency))
					r.Route("/clients", params.UsersHandler.MountRoutes)
				})
			})
			r.Group(func(r chi.Router) {
				r.Use(roles.RequireRole(auth.RoleAdmin, auth.RoleAgency, auth.RoleClient))
				r.Route("/upload", params.UploadsHandler.MountRoutes)
			})
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.Files != nil {
		r.Method(http.MethodGet, "/files/*", params.Files)
		r.Method(http.MethodHead, "/files/*", params.Files)
	}

	return r
}
