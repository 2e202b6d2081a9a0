package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ems-portal/ems-portal/internal/auth"
	"github.com/ems-portal/ems-portal/internal/home"
	"github.com/ems-portal/ems-portal/internal/navigation"
	"github.com/ems-portal/ems-portal/internal/observability"
	"github.com/ems-portal/ems-portal/internal/shared"
	"github.com/ems-portal/ems-portal/jobs"
	"github.com/ems-portal/ems-portal/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	AuthHandler    *auth.Handler
	HomeHandler    *home.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
	// Ready reports backend health for /healthz. Nil means always ready.
	Ready func(r *http.Request) error
}

// NewRouter constructs the chi.Router of the portal.
func NewRouter(params RouterParams) http.Handler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.RequestID, chimw.Recoverer)
	if !InTestMode() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if params.Ready != nil {
			if err := params.Ready(r); err != nil {
				logger.Warn("health check", slog.Any("error", err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix(web.StaticPrefix, http.FileServer(http.FS(staticFS)))
		r.Handle(web.StaticPrefix+"*", staticCacheHandler(fileServer))
	}

	// Everything below runs with a session.
	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
			Metrics:        params.Metrics,
		}) {
			r.Use(mw)
		}

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			if auth.FromContext(r.Context()) == nil {
				http.Redirect(w, r, navigation.PathLogin, http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, navigation.PathDashboard, http.StatusSeeOther)
		})

		params.AuthHandler.MountRoutes(r)
		r.Route("/home", params.HomeHandler.MountRoutes)
		if params.JobHandler != nil {
			r.With(auth.Middleware{Logger: logger}.RequireUser).Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
// Static assets are cached for 1 hour in browser.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
