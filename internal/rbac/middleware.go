package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ems-portal/ems-portal/internal/auth"
)

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
	// Denied writes the 403 response. Nil means a plain-text 403.
	Denied http.Handler
}

// RequireAny lets the request through when the signed-in role holds at least
// one of perms. Anonymous requests are denied.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := auth.FromContext(r.Context())
			if sc != nil && m.Service.HasAny(sc.Role(), perms...) {
				next.ServeHTTP(w, r)
				return
			}
			role := "anonymous"
			if sc != nil {
				role = string(sc.Role())
			}
			if m.Logger != nil {
				m.Logger.Warn("rbac denied",
					slog.String("role", role),
					slog.String("path", r.URL.Path),
					slog.String("required", strings.Join(perms, "|")))
			}
			m.deny(w, r)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request) {
	if m.Denied != nil {
		m.Denied.ServeHTTP(w, r)
		return
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
