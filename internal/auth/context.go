package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ems-portal/ems-portal/internal/navigation"
	"github.com/ems-portal/ems-portal/internal/shared"
)

// Session keys owned by the session context.
const (
	SessionKeyUser = "user"
	SessionKeyRole = "userRole"
)

// SessionContext is the signed-in user's identity for one session. It is
// created at login by Begin, loaded per request by LoadContext and ended at
// logout.
type SessionContext struct {
	sess *shared.Session
	user User
	role navigation.Role
}

// Begin stores user in sess and returns the new context.
func Begin(sess *shared.Session, user User) (*SessionContext, error) {
	if sess == nil {
		return nil, shared.ErrSessionMissing
	}
	c := &SessionContext{sess: sess}
	if err := c.SetUser(user); err != nil {
		return nil, err
	}
	c.SetRole(user.Role)
	return c, nil
}

// LoadContext rebuilds the context from sess. It returns nil when nobody is
// signed in.
func LoadContext(sess *shared.Session) (*SessionContext, error) {
	if sess == nil {
		return nil, nil
	}
	raw := sess.Get(SessionKeyUser)
	if raw == "" {
		return nil, nil
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("auth: decode session user: %w", err)
	}
	role := navigation.Role(sess.Get(SessionKeyRole))
	if role == "" {
		role = user.Role
	}
	return &SessionContext{sess: sess, user: user, role: role}, nil
}

// User returns a copy of the signed-in user.
func (c *SessionContext) User() User {
	return c.user
}

// Role returns the current role.
func (c *SessionContext) Role() navigation.Role {
	return c.role
}

// SetUser replaces the stored user record. The password never leaves memory.
func (c *SessionContext) SetUser(user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("auth: encode session user: %w", err)
	}
	c.user = user
	c.sess.Set(SessionKeyUser, string(data))
	return nil
}

// SetRole replaces the current role.
func (c *SessionContext) SetRole(role navigation.Role) {
	c.role = role
	c.sess.Set(SessionKeyRole, string(role))
}

// SessionID returns the backing session ID.
func (c *SessionContext) SessionID() string {
	return c.sess.ID
}

// End removes the user and role from the session.
func (c *SessionContext) End() {
	c.sess.Delete(SessionKeyUser)
	c.sess.Delete(SessionKeyRole)
	c.user = User{}
	c.role = ""
}

type contextKey struct{}

// ContextWith stores sc in ctx.
func ContextWith(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the session context of the request, or nil.
func FromContext(ctx context.Context) *SessionContext {
	sc, _ := ctx.Value(contextKey{}).(*SessionContext)
	return sc
}

// Middleware attaches and enforces the session context.
type Middleware struct {
	Logger *slog.Logger
}

// Attach loads the session context, when present, into the request context.
// A corrupt user record is dropped and the request continues anonymously.
func (m Middleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		sc, err := LoadContext(sess)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("drop session user", slog.Any("error", err))
			}
			sess.Delete(SessionKeyUser)
			sess.Delete(SessionKeyRole)
			sc = nil
		}
		if sc != nil {
			r = r.WithContext(ContextWith(r.Context(), sc))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser redirects anonymous requests to the login page.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			http.Redirect(w, r, navigation.PathLogin, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
