package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/observability"
	"github.com/appboilerplate/taskmanager/internal/platform/httpx"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger  *slog.Logger
	Config  *Config
	Bundle  *i18n.Bundle
	Metrics *observability.Metrics
}

// paths still served while maintenance mode is on
var maintenanceExempt = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// MiddlewareStack installs the API middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	timeout := 30 * time.Second
	limit := 60
	if cfg.Config != nil {
		if cfg.Config.AppRequestTimeout > 0 {
			timeout = cfg.Config.AppRequestTimeout
		}
		limit = cfg.Config.RateLimitPerMinute
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
	}
	if cfg.Bundle != nil {
		middlewares = append(middlewares, cfg.Bundle.Middleware)
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	if cfg.Config != nil && cfg.Config.MaintenanceMode {
		middlewares = append(middlewares, maintenance(cfg.Bundle))
	}
	if limit > 0 {
		middlewares = append(middlewares, RateLimit(limit, cfg.Bundle))
	}
	return middlewares
}

// RateLimit allows perMinute requests per client IP and answers the rest
// with a localized 429.
func RateLimit(perMinute int, bundle *i18n.Bundle) func(http.Handler) http.Handler {
	strings := bundle.Domain("")
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Error(w, http.StatusTooManyRequests, strings.T(r.Context(), "tooManyRequests"), nil)
		}),
	)
}

func maintenance(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	strings := bundle.Domain("")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := maintenanceExempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			httpx.Error(w, http.StatusServiceUnavailable, strings.T(r.Context(), "appMaintenanceMode"), nil)
		})
	}
}
