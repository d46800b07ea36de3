package app

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/observability"
	"github.com/appboilerplate/taskmanager/internal/platform/httpx"
	"github.com/appboilerplate/taskmanager/internal/tasks"
	"github.com/appboilerplate/taskmanager/internal/users"
	"github.com/appboilerplate/taskmanager/jobs"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Bundle         *i18n.Bundle
	Metrics        *observability.Metrics
	AuthHandler    *auth.Handler
	AuthMiddleware auth.Middleware
	UsersHandler   *users.Handler
	TasksHandler   *tasks.Handler
	JobHandler     *jobs.Handler
	// Health maps a dependency name ("store", "redis") to its probe.
	Health map[string]HealthCheck
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Bundle:  params.Bundle,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	global := params.Bundle.Domain("")
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, global.T(r.Context(), "methodNotAllowed"), nil)
	})

	r.Get("/healthz", healthHandler(params.Health, params.Logger))
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		if params.Config != nil && params.Config.AuthRateLimitPerMinute > 0 {
			r.Use(writesOnly(RateLimit(params.Config.AuthRateLimitPerMinute, params.Bundle)))
		}
		if params.AuthHandler != nil {
			params.AuthHandler.MountPublicRoutes(r)
		}
		if params.UsersHandler != nil {
			params.UsersHandler.MountPublicRoutes(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireAuth)
		if params.AuthHandler != nil {
			params.AuthHandler.MountRoutes(r)
		}
		if params.UsersHandler != nil {
			params.UsersHandler.MountRoutes(r)
		}
		if params.TasksHandler != nil {
			params.TasksHandler.MountRoutes(r)
		}
	})

	return r
}

// writesOnly applies mw to non-GET requests. Public writes are login and
// signup; avatar reads stay under the global limit only.
func writesOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				if logger != nil {
					logger.Warn("health check failed", slog.String("dependency", name), slog.Any("error", err))
				}
				resp.Checks[name] = "unavailable"
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		if len(resp.Checks) == 0 {
			resp.Checks = nil
		}
		httpx.JSON(w, status, resp)
	}
}
